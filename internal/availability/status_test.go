package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var statusNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func enPhysical(date string) EditionInfo {
	return EditionInfo{Format: "physical", Language: "en", ReleaseDate: date}
}

func TestDeriveEditionStatus(t *testing.T) {
	tests := []struct {
		name     string
		editions []EditionInfo
		want     EditionStatus
	}{
		{"no editions", nil, EditionJapanOnly},
		{"japanese only", []EditionInfo{{Format: "physical", Language: "ja"}}, EditionJapanOnly},
		{"english physical released", []EditionInfo{enPhysical("2024-01-15")}, EditionReleased},
		{"english physical future", []EditionInfo{enPhysical("2027-01-15")}, EditionUpcoming},
		{"release date today is released", []EditionInfo{enPhysical("2026-06-01")}, EditionReleased},
		{"unparseable date is released", []EditionInfo{enPhysical("spring 2027")}, EditionReleased},
		{"no date is released", []EditionInfo{enPhysical("")}, EditionReleased},
		{"rfc3339 future date", []EditionInfo{enPhysical("2027-01-15T00:00:00Z")}, EditionUpcoming},
		{"english digital only", []EditionInfo{{Format: "digital", Language: "en"}}, EditionDigitalOnly},
		{
			"future physical outranks released physical",
			[]EditionInfo{enPhysical("2027-03-01"), enPhysical("2020-03-01")},
			EditionUpcoming,
		},
		{
			"digital plus released physical is released",
			[]EditionInfo{{Format: "digital", Language: "en"}, enPhysical("2020-03-01")},
			EditionReleased,
		},
		{
			"japanese plus english digital is digital only",
			[]EditionInfo{{Format: "physical", Language: "ja"}, {Format: "digital", Language: "en"}},
			EditionDigitalOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEditionStatus(tt.editions, statusNow))
		})
	}
}

func TestVolumeDisplayStatus(t *testing.T) {
	released := []EditionInfo{enPhysical("2024-01-15")}

	tests := []struct {
		name       string
		editions   []EditionInfo
		totals     *CopyTotals
		catalogURL string
		want       DisplayStatus
	}{
		{
			name:     "japan only ignores holdings",
			editions: []EditionInfo{{Format: "physical", Language: "ja"}},
			totals:   &CopyTotals{Available: 3, Total: 3},
			want:     DisplayJapanOnly,
		},
		{
			name:     "upcoming ignores holdings",
			editions: []EditionInfo{enPhysical("2027-01-01")},
			totals:   &CopyTotals{Available: 1, Total: 1},
			want:     DisplayUpcoming,
		},
		{
			name:     "digital only short circuits",
			editions: []EditionInfo{{Format: "digital", Language: "en"}},
			totals:   &CopyTotals{Available: 1, Total: 1},
			want:     DisplayDigitalOnly,
		},
		{
			name:     "released but never matched",
			editions: released,
			totals:   nil,
			want:     DisplayNotInCatalog,
		},
		{
			name:       "zero copies with catalog url",
			editions:   released,
			totals:     &CopyTotals{},
			catalogURL: "https://catalog.example.org/record/123",
			want:       DisplayLibraryDigitalOnly,
		},
		{
			name:     "zero copies without url",
			editions: released,
			totals:   &CopyTotals{},
			want:     DisplayNotInCatalog,
		},
		{
			name:     "stack ranked available",
			editions: released,
			totals:   &CopyTotals{Available: 1, CheckedOut: 2, Total: 3},
			want:     DisplayAvailable,
		},
		{
			name:     "stack ranked checked out",
			editions: released,
			totals:   &CopyTotals{CheckedOut: 2, OnHold: 1, Total: 3},
			want:     DisplayCheckedOut,
		},
		{
			name:     "stack ranked unavailable",
			editions: released,
			totals:   &CopyTotals{Unavailable: 1, Total: 1},
			want:     DisplayUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VolumeDisplayStatus(tt.editions, tt.totals, tt.catalogURL, statusNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayStatusLabel(t *testing.T) {
	assert.Equal(t, "Not in catalog", DisplayNotInCatalog.Label())
	assert.Equal(t, "Library digital only", DisplayLibraryDigitalOnly.Label())
	assert.Equal(t, "weird", DisplayStatus("weird").Label())
}
