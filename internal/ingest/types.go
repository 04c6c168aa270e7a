// Package ingest translates source-specific payloads into resolver calls,
// building the entity graph one logical transaction at a time. Resolution
// is best-effort: a failure partway leaves earlier entities persisted.
package ingest

// SeriesPayload is the record the primary (wiki-style) source collaborator
// produces for one series. Field names follow the source's JSON.
type SeriesPayload struct {
	PageID        string                 `json:"pageId"`
	Title         string                 `json:"title"`
	Author        string                 `json:"author,omitempty"`
	IsComplete    bool                   `json:"isComplete"`
	Volumes       []VolumePayload        `json:"volumes"`
	RelatedSeries []RelatedSeriesPayload `json:"relatedSeries,omitempty"`
}

// VolumePayload is one volume row of the primary payload. Either ISBN may
// be absent; a volume with no ISBNs at all is still valid and represents a
// volume whose releases are unknown.
type VolumePayload struct {
	VolumeNumber        int    `json:"volumeNumber"`
	Title               string `json:"title"`
	JapaneseISBN        string `json:"japaneseISBN,omitempty"`
	JapaneseReleaseDate string `json:"japaneseReleaseDate,omitempty"`
	EnglishISBN         string `json:"englishISBN,omitempty"`
	EnglishReleaseDate  string `json:"englishReleaseDate,omitempty"`
}

// RelatedSeriesPayload describes a spin-off/side-story attached to a
// primary series. Related series can nest.
type RelatedSeriesPayload struct {
	Title         string                 `json:"title"`
	MediaType     string                 `json:"mediaType"`
	Relationship  string                 `json:"relationship"`
	Volumes       []VolumePayload        `json:"volumes"`
	RelatedSeries []RelatedSeriesPayload `json:"relatedSeries,omitempty"`
}

// FallbackVolume is one volume row from the fallback (catalog search)
// source, which knows less than the primary one.
type FallbackVolume struct {
	VolumeNumber int    `json:"volumeNumber"`
	ISBN         string `json:"isbn,omitempty"`
	Title        string `json:"title,omitempty"`
}
