package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCopyTotals(t *testing.T) {
	copies := []Copy{
		{Status: CopyAvailable},
		{Status: CopyAvailable},
		{Status: CopyCheckedOut},
		{Status: CopyOnHold},
		{Status: "lost"},
	}
	totals := ComputeCopyTotals(copies)

	assert.Equal(t, 2, totals.Available)
	assert.Equal(t, 1, totals.CheckedOut)
	assert.Equal(t, 1, totals.OnHold)
	assert.Equal(t, 0, totals.Unavailable)
	// unknown categories still count toward the total
	assert.Equal(t, 5, totals.Total)
}

func TestComputeCopyTotalsEmpty(t *testing.T) {
	totals := ComputeCopyTotals(nil)
	assert.Equal(t, CopyTotals{}, totals)
}

func TestMergeCopyTotalsMatchesComputeOnWhole(t *testing.T) {
	branchA := []Copy{{Status: CopyAvailable}, {Status: CopyInTransit}}
	branchB := []Copy{{Status: CopyCheckedOut}, {Status: CopyAvailable}, {Status: "lost"}}
	branchC := []Copy{}

	merged := MergeCopyTotals([]CopyTotals{
		ComputeCopyTotals(branchA),
		ComputeCopyTotals(branchB),
		ComputeCopyTotals(branchC),
	})

	var whole []Copy
	whole = append(whole, branchA...)
	whole = append(whole, branchB...)
	whole = append(whole, branchC...)

	assert.Equal(t, ComputeCopyTotals(whole), merged)
}

func TestMergeCopyTotalsEmpty(t *testing.T) {
	assert.Equal(t, CopyTotals{}, MergeCopyTotals(nil))
}

func TestStackRankedStatus(t *testing.T) {
	tests := []struct {
		name   string
		totals CopyTotals
		want   CopyStatus
		ok     bool
	}{
		{"no copies", CopyTotals{}, "", false},
		{"available beats checked out", CopyTotals{Available: 1, CheckedOut: 5, Total: 6}, CopyAvailable, true},
		{"checked out beats on hold", CopyTotals{CheckedOut: 2, OnHold: 1, Total: 3}, CopyCheckedOut, true},
		{"in transit beats on hold", CopyTotals{InTransit: 1, OnHold: 3, Total: 4}, CopyInTransit, true},
		{"on hold beats on order", CopyTotals{OnHold: 1, OnOrder: 1, Total: 2}, CopyOnHold, true},
		{"on order beats unavailable", CopyTotals{OnOrder: 1, Unavailable: 4, Total: 5}, CopyOnOrder, true},
		{"only unavailable", CopyTotals{Unavailable: 2, Total: 2}, CopyUnavailable, true},
		{"only unknown categories", CopyTotals{Total: 3}, CopyUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StackRankedStatus(tt.totals)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
