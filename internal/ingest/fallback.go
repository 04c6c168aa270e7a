package ingest

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/tsundoku/internal/library"
)

// CreateEntitiesFromFallbackSource ingests a catalog-search result when
// the primary source is unavailable. The series is keyed by title alone
// (no external id exists at this confidence level) and every edition
// produced defaults to an English physical release.
func (o *Orchestrator) CreateEntitiesFromFallbackSource(title string, volumes []FallbackVolume, mediaType library.MediaType) (*Result, error) {
	sr, err := o.resolver.FindOrCreateSeriesByTitle(library.SeriesInput{
		Title:     title,
		MediaType: library.DetectMediaType(title, mediaType),
		Status:    library.SeriesUnknown,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Resolved fallback series", "series", sr.ID, "title", sr.Title)

	inputs := make([]library.VolumeInput, 0, len(volumes))
	for _, fv := range volumes {
		in := library.VolumeInput{
			SeriesID:     sr.ID,
			VolumeNumber: fv.VolumeNumber,
			Title:        fv.Title,
		}
		if fv.ISBN != "" {
			in.Editions = []library.EditionInput{{
				ISBN:     fv.ISBN,
				Format:   library.FormatPhysical,
				Language: "en",
			}}
		}
		inputs = append(inputs, in)
	}

	resolved, err := o.resolver.FindOrCreateVolumes(inputs)
	if err != nil {
		return &Result{Series: sr, Volumes: resolved},
			fmt.Errorf("failed to resolve fallback volumes for %q: %w", title, err)
	}

	volumeIDs := make([]string, 0, len(resolved))
	for _, v := range resolved {
		volumeIDs = appendIfMissing(volumeIDs, v.ID)
	}
	if err := o.resolver.UpdateSeriesVolumes(sr.ID, volumeIDs); err != nil {
		return &Result{Series: sr, Volumes: resolved}, err
	}

	if updated, ok := o.resolver.Store().GetSeries(sr.ID); ok {
		sr = updated
	}
	return &Result{Series: sr, Volumes: resolved}, nil
}
