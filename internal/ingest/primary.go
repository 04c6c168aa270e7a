package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/tsundoku/internal/ident"
	"github.com/lepinkainen/tsundoku/internal/library"
)

// Orchestrator drives the resolvers to build a consistent graph from
// source payloads.
type Orchestrator struct {
	resolver *library.Resolver
}

// NewOrchestrator creates an Orchestrator on top of the given resolver.
func NewOrchestrator(resolver *library.Resolver) *Orchestrator {
	return &Orchestrator{resolver: resolver}
}

// Result is what one ingestion run produced: the primary series, its
// volumes in payload order, and any related series resolved along the way.
type Result struct {
	Series  *library.Series   `json:"series"`
	Volumes []*library.Volume `json:"volumes"`
	Related []*library.Series `json:"related,omitempty"`
}

// CreateEntitiesFromPrimarySource ingests one primary-source payload:
// find-or-create the series by wiki page id, resolve its volumes with
// Japanese/English editions where ISBNs are present, write the ordered
// volume list back, and recursively resolve and link any related series.
func (o *Orchestrator) CreateEntitiesFromPrimarySource(payload SeriesPayload) (*Result, error) {
	mediaType := library.DetectMediaType(payload.Title, "")
	status := library.SeriesOngoing
	if payload.IsComplete {
		status = library.SeriesCompleted
	}

	sr, err := o.resolver.FindOrCreateSeriesByPageID(payload.PageID, library.SeriesInput{
		Title:     payload.Title,
		MediaType: mediaType,
		Author:    payload.Author,
		Status:    status,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Resolved primary series",
		"series", sr.ID, "title", sr.Title, "pageId", payload.PageID)

	volumes, err := o.resolveVolumes(sr.ID, payload.Volumes)
	if err != nil {
		return nil, err
	}

	result := &Result{Series: sr, Volumes: volumes}
	for _, related := range payload.RelatedSeries {
		relSeries, err := o.resolveRelated(sr, related)
		if err != nil {
			return nil, err
		}
		result.Related = append(result.Related, relSeries...)
	}

	// re-read: related linking may have touched the series record
	if updated, ok := o.resolver.Store().GetSeries(sr.ID); ok {
		result.Series = updated
	}
	return result, nil
}

// resolveVolumes resolves a payload's volumes in order and writes the
// resulting id list back onto the series.
func (o *Orchestrator) resolveVolumes(seriesID string, payload []VolumePayload) ([]*library.Volume, error) {
	inputs := make([]library.VolumeInput, 0, len(payload))
	for _, vp := range payload {
		inputs = append(inputs, library.VolumeInput{
			SeriesID:     seriesID,
			VolumeNumber: vp.VolumeNumber,
			Title:        vp.Title,
			Editions:     volumeEditions(vp),
		})
	}

	volumes, err := o.resolver.FindOrCreateVolumes(inputs)
	if err != nil {
		return volumes, fmt.Errorf("failed to resolve volumes for series %s: %w", seriesID, err)
	}

	volumeIDs := make([]string, 0, len(volumes))
	for _, v := range volumes {
		volumeIDs = appendIfMissing(volumeIDs, v.ID)
	}
	if err := o.resolver.UpdateSeriesVolumes(seriesID, volumeIDs); err != nil {
		return volumes, err
	}
	return volumes, nil
}

// volumeEditions builds the edition inputs for one primary-source volume.
// The primary source reports printed releases, so both sides are physical.
func volumeEditions(vp VolumePayload) []library.EditionInput {
	var editions []library.EditionInput
	if vp.JapaneseISBN != "" {
		editions = append(editions, library.EditionInput{
			ISBN:        vp.JapaneseISBN,
			Format:      library.FormatPhysical,
			Language:    "ja",
			ReleaseDate: vp.JapaneseReleaseDate,
		})
	}
	if vp.EnglishISBN != "" {
		editions = append(editions, library.EditionInput{
			ISBN:        vp.EnglishISBN,
			Format:      library.FormatPhysical,
			Language:    "en",
			ReleaseDate: vp.EnglishReleaseDate,
		})
	}
	return editions
}

// resolveRelated resolves one related-series payload under parent,
// recursing into its own related entries. Returns every series created or
// adopted in the subtree.
func (o *Orchestrator) resolveRelated(parent *library.Series, payload RelatedSeriesPayload) ([]*library.Series, error) {
	relType := library.DetectMediaType(payload.Title, library.MediaType(payload.MediaType))
	title := relatedTitle(parent, payload.Title, relType)

	relSr, err := o.resolver.FindOrCreateSeriesByTitle(library.SeriesInput{
		Title:          title,
		MediaType:      relType,
		Status:         library.SeriesUnknown,
		ParentSeriesID: parent.ID,
		Relationship:   library.Relationship(payload.Relationship),
	})
	if err != nil {
		return nil, err
	}
	if _, err := o.resolveVolumes(relSr.ID, payload.Volumes); err != nil {
		return nil, err
	}
	if err := o.resolver.LinkRelatedSeries(parent.ID, relSr.ID); err != nil {
		return nil, err
	}
	slog.Info("Linked related series",
		"parent", parent.ID, "related", relSr.ID, "relationship", payload.Relationship)

	// re-read: volume resolution wrote the ordered volume list
	if updated, ok := o.resolver.Store().GetSeries(relSr.ID); ok {
		relSr = updated
	}

	out := []*library.Series{relSr}
	for _, nested := range payload.RelatedSeries {
		sub, err := o.resolveRelated(relSr, nested)
		if err != nil {
			return out, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// relatedTitle builds the display title for a related series: prefix the
// parent title when the related title does not already reference it, and
// append a media-type tag when the type differs from the parent (a
// light-novel counterpart of a manga would otherwise collide on the same
// normalized title).
func relatedTitle(parent *library.Series, title string, mediaType library.MediaType) string {
	normalized := ident.NormalizeTitle(title)
	parentNorm := ident.NormalizeTitle(parent.Title)
	if parentNorm != "" && !strings.Contains(normalized, parentNorm) {
		title = parent.Title + ": " + title
	}
	if mediaType != parent.MediaType {
		if tag := mediaTypeTag(mediaType); tag != "" {
			title = title + " (" + tag + ")"
		}
	}
	return title
}

func mediaTypeTag(mt library.MediaType) string {
	switch mt {
	case library.MediaTypeLightNovel:
		return "Light Novel"
	case library.MediaTypeManga:
		return "Manga"
	case library.MediaTypeArtbook:
		return "Artbook"
	case library.MediaTypeGuidebook:
		return "Guidebook"
	}
	return ""
}

// appendIfMissing adds v to slice unless already present, keeping order.
func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
