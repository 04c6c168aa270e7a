// Package library holds the canonical entity graph for tracked series:
// the Series/Volume/Edition model, the snapshot-backed store, and the
// find-or-create resolvers that keep the graph deduplicated.
package library

import "time"

// MediaType classifies what kind of work a Series is.
type MediaType string

const (
	MediaTypeManga      MediaType = "manga"
	MediaTypeLightNovel MediaType = "light_novel"
	MediaTypeArtbook    MediaType = "artbook"
	MediaTypeGuidebook  MediaType = "guidebook"
)

// SeriesStatus is the publication status of a Series.
type SeriesStatus string

const (
	SeriesOngoing   SeriesStatus = "ongoing"
	SeriesCompleted SeriesStatus = "completed"
	SeriesUnknown   SeriesStatus = "unknown"
)

// Relationship describes how a related Series derives from its parent.
type Relationship string

const (
	RelationshipSpinOff    Relationship = "spin_off"
	RelationshipSideStory  Relationship = "side_story"
	RelationshipSequel     Relationship = "sequel"
	RelationshipPrequel    Relationship = "prequel"
	RelationshipAdaptation Relationship = "adaptation"
)

// Format distinguishes printed from digital editions.
type Format string

const (
	FormatPhysical Format = "physical"
	FormatDigital  Format = "digital"
)

// ExternalIDs maps a Series to its identifiers in external sources.
// Each source contributes at most one id.
type ExternalIDs struct {
	WikiPageID string `json:"wiki_page_id,omitempty"`
	MetadataID string `json:"metadata_id,omitempty"`
}

// Series is a logical serialized work spanning one or more volumes.
type Series struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	NormalizedTitle  string       `json:"normalized_title"`
	MediaType        MediaType    `json:"media_type"`
	ExternalIDs      ExternalIDs  `json:"external_ids,omitempty"`
	VolumeIDs        []string     `json:"volume_ids"` // reading order
	RelatedSeriesIDs []string     `json:"related_series_ids,omitempty"`
	ParentSeriesID   string       `json:"parent_series_id,omitempty"`
	Relationship     Relationship `json:"relationship,omitempty"`
	Author           string       `json:"author,omitempty"`
	Artist           string       `json:"artist,omitempty"`
	Status           SeriesStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Volume is one numbered installment of a Series.
type Volume struct {
	ID           string    `json:"id"`
	SeriesID     string    `json:"series_id"`
	VolumeNumber int       `json:"volume_number"`
	Title        string    `json:"title,omitempty"`
	EditionIDs   []string  `json:"edition_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Edition is one concrete printed or digital release of one or more
// volumes, keyed by ISBN. An edition spanning several volumes is an
// omnibus.
type Edition struct {
	ID          string    `json:"id"`
	ISBN        string    `json:"isbn"`
	Format      Format    `json:"format"`
	Language    string    `json:"language"` // ISO-style code, e.g. "en", "ja"
	ReleaseDate string    `json:"release_date,omitempty"` // ISO date, optional
	VolumeIDs   []string  `json:"volume_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// appendIfMissing adds v to slice unless it is already present, preserving
// order. Used everywhere an id list must behave like an ordered set.
func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
