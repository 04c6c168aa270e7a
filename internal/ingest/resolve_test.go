package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEntityDispatch(t *testing.T) {
	o := newTestOrchestrator(t)

	result, err := o.CreateEntitiesFromPrimarySource(SeriesPayload{
		PageID: "wiki-20",
		Title:  "Mob Psycho 100",
		Volumes: []VolumePayload{
			{VolumeNumber: 1, EnglishISBN: "9781506709871"},
		},
	})
	require.NoError(t, err)

	// durable id lookups
	ent, ok := o.ResolveEntity(result.Series.ID)
	require.True(t, ok)
	require.NotNil(t, ent.Series)
	assert.Equal(t, result.Series.ID, ent.Series.ID)

	ent, ok = o.ResolveEntity(result.Volumes[0].ID)
	require.True(t, ok)
	require.NotNil(t, ent.Volume)
	assert.Equal(t, result.Volumes[0].ID, ent.Volume.ID)

	ent, ok = o.ResolveEntity(result.Volumes[0].EditionIDs[0])
	require.True(t, ok)
	require.NotNil(t, ent.Edition)

	// ISBN lookup returns a full match
	ent, ok = o.ResolveEntity("9781506709871")
	require.True(t, ok)
	require.NotNil(t, ent.Match)
	assert.Equal(t, result.Series.ID, ent.Match.Series.ID)

	// title lookup, punctuation-insensitive
	ent, ok = o.ResolveEntity("mob psycho 100!")
	require.True(t, ok)
	require.NotNil(t, ent.Series)
	assert.Equal(t, result.Series.ID, ent.Series.ID)
}

func TestResolveEntityMisses(t *testing.T) {
	o := newTestOrchestrator(t)

	for _, query := range []string{
		"s_0000000000000000000000000000000a",
		"v_0000000000000000000000000000000a",
		"e_0000000000000000000000000000000a",
		"9780000000000",
		"no such series",
	} {
		_, ok := o.ResolveEntity(query)
		assert.False(t, ok, "query %q", query)
	}
}

func TestResolveByISBNWithVolume(t *testing.T) {
	o := newTestOrchestrator(t)

	_, err := o.CreateEntitiesFromPrimarySource(SeriesPayload{
		PageID: "wiki-21",
		Title:  "20th Century Boys Perfect Edition",
		Volumes: []VolumePayload{
			{VolumeNumber: 1, EnglishISBN: "9781974701421"},
			{VolumeNumber: 2, EnglishISBN: "9781974701421"},
		},
	})
	require.NoError(t, err)

	match, ok := o.ResolveByISBN("9781974701421")
	require.True(t, ok)
	assert.Len(t, match.Volumes, 2)

	narrowed, ok := o.ResolveByISBNWithVolume("9781974701421", 2)
	require.True(t, ok)
	require.Len(t, narrowed.Volumes, 1)
	assert.Equal(t, 2, narrowed.Volumes[0].VolumeNumber)
}

func TestLooksLikeISBN(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"9781974701421", true},
		{"978-1-9747-0142-1", true},
		{"4063365077", true},
		{"406336507X", true},
		{"978 4063365078", true},
		{"97819747014", false},
		{"not an isbn", false},
		{"", false},
		{"9781974701421a", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeISBN(tt.query))
		})
	}
}
