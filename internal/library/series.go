package library

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/tsundoku/internal/errors"
	"github.com/lepinkainen/tsundoku/internal/ident"
)

// Resolver implements find-or-create and linking for the entity graph on
// top of a Store. Every find-or-create holds a per-identity-key lock across
// its read-decide-write sequence, so two concurrent callers resolving the
// same unseen key converge on one entity instead of racing to create two.
type Resolver struct {
	store *Store
	locks *keyedLocks
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{
		store: store,
		locks: newKeyedLocks(),
	}
}

// Store exposes the underlying store for read-path callers.
func (r *Resolver) Store() *Store {
	return r.store
}

// SeriesInput carries the fields a caller can supply when resolving a
// Series. Missing fields get defaults rather than rejections.
type SeriesInput struct {
	Title          string
	MediaType      MediaType
	Author         string
	Artist         string
	Status         SeriesStatus
	ExternalIDs    ExternalIDs
	ParentSeriesID string
	Relationship   Relationship
}

// CreateSeries allocates a new Series with defaults applied and persists
// it. Callers that need deduplication use the FindOrCreate variants.
func (r *Resolver) CreateSeries(input SeriesInput) (*Series, error) {
	now := r.store.clock()
	sr := &Series{
		ID:              ident.NewID(ident.KindSeries),
		Title:           input.Title,
		NormalizedTitle: ident.NormalizeTitle(input.Title),
		MediaType:       input.MediaType,
		ExternalIDs:     input.ExternalIDs,
		VolumeIDs:       []string{},
		ParentSeriesID:  input.ParentSeriesID,
		Relationship:    input.Relationship,
		Author:          input.Author,
		Artist:          input.Artist,
		Status:          input.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if sr.MediaType == "" {
		sr.MediaType = MediaTypeManga
	}
	if sr.Status == "" {
		sr.Status = SeriesUnknown
	}
	if err := r.store.PutSeries(sr); err != nil {
		return nil, fmt.Errorf("failed to create series %q: %w", input.Title, err)
	}
	return sr, nil
}

// FindOrCreateSeriesByPageID resolves a Series by its wiki page id.
// When no Series carries the page id yet, it falls back to the normalized
// title so a Series previously created from a title-only source is adopted
// (and the missing page id backfilled) instead of duplicated. A title match
// that already carries a different page id is returned untouched; external
// ids are only ever attached, never replaced. Calling this twice with the
// same page id always yields the same Series id.
func (r *Resolver) FindOrCreateSeriesByPageID(pageID string, input SeriesInput) (*Series, error) {
	unlock := r.locks.acquire("page:" + pageID)
	defer unlock()

	if sr, ok := r.store.GetSeriesByPageID(pageID); ok {
		return r.adoptParent(sr, input)
	}

	// Fall back to the title key: the same series may have been created
	// earlier from a source that had no page id. The title lock is held
	// across the fallback and the create so a concurrent title-keyed
	// resolution of the same unseen title cannot race a second series
	// into existence.
	if normalized := ident.NormalizeTitle(input.Title); normalized != "" {
		unlockTitle := r.locks.acquire("title:" + normalized)
		defer unlockTitle()

		if sr, ok := r.store.GetSeriesByNormalizedTitle(normalized); ok {
			if sr.ExternalIDs.WikiPageID != "" && sr.ExternalIDs.WikiPageID != pageID {
				slog.Warn("Wiki page id conflict on title match, keeping existing id",
					"series", sr.ID, "title", sr.Title,
					"existing", sr.ExternalIDs.WikiPageID, "incoming", pageID)
				return r.adoptParent(sr, input)
			}
			sr.ExternalIDs.WikiPageID = pageID
			if sr.ExternalIDs.MetadataID == "" {
				sr.ExternalIDs.MetadataID = input.ExternalIDs.MetadataID
			}
			sr, err := r.adoptParentLocked(sr, input)
			if err != nil {
				return nil, err
			}
			slog.Info("Backfilled wiki page id onto existing series",
				"series", sr.ID, "title", sr.Title, "pageId", pageID)
			return sr, nil
		}
	}

	input.ExternalIDs.WikiPageID = pageID
	return r.CreateSeries(input)
}

// FindOrCreateSeriesByTitle resolves a Series by normalized title alone.
// Used for lower-confidence sources that carry no external id.
func (r *Resolver) FindOrCreateSeriesByTitle(input SeriesInput) (*Series, error) {
	normalized := ident.NormalizeTitle(input.Title)
	unlock := r.locks.acquire("title:" + normalized)
	defer unlock()

	if sr, ok := r.store.GetSeriesByNormalizedTitle(normalized); ok {
		return r.adoptParent(sr, input)
	}
	return r.CreateSeries(input)
}

// adoptParent applies the unlinked->linked transition to an existing
// Series: a series that first appears as a related-series target gains its
// parent pointer once, and is never re-parented afterwards.
func (r *Resolver) adoptParent(sr *Series, input SeriesInput) (*Series, error) {
	if input.ParentSeriesID == "" || sr.ParentSeriesID != "" {
		return sr, nil
	}
	return r.adoptParentLocked(sr, input)
}

// adoptParentLocked persists parent adoption (or any pending field change
// on sr) without re-checking; callers hold the identity-key lock.
func (r *Resolver) adoptParentLocked(sr *Series, input SeriesInput) (*Series, error) {
	if input.ParentSeriesID != "" && sr.ParentSeriesID == "" {
		sr.ParentSeriesID = input.ParentSeriesID
		sr.Relationship = input.Relationship
	}
	if err := r.store.PutSeries(sr); err != nil {
		return nil, fmt.Errorf("failed to update series %s: %w", sr.ID, err)
	}
	// re-read so the caller sees the store-stamped UpdatedAt
	updated, ok := r.store.GetSeries(sr.ID)
	if !ok {
		return nil, errors.NewNotFoundError("series", sr.ID)
	}
	return updated, nil
}

// UpdateSeriesVolumes replaces a Series' volume list wholesale (reading
// order comes from the source payload, so a merge would scramble it).
// Fails with NotFoundError when the series does not exist.
func (r *Resolver) UpdateSeriesVolumes(seriesID string, volumeIDs []string) error {
	sr, ok := r.store.GetSeries(seriesID)
	if !ok {
		return errors.NewNotFoundError("series", seriesID)
	}
	sr.VolumeIDs = append([]string(nil), volumeIDs...)
	if err := r.store.PutSeries(sr); err != nil {
		return fmt.Errorf("failed to update volumes for series %s: %w", seriesID, err)
	}
	return nil
}

// LinkRelatedSeries adds relatedID to the parent's related set. Linking an
// already-linked pair is a no-op, not an error. Fails with NotFoundError
// when the parent does not exist.
func (r *Resolver) LinkRelatedSeries(parentID, relatedID string) error {
	parent, ok := r.store.GetSeries(parentID)
	if !ok {
		return errors.NewNotFoundError("series", parentID)
	}
	linked := appendIfMissing(parent.RelatedSeriesIDs, relatedID)
	if len(linked) == len(parent.RelatedSeriesIDs) {
		return nil
	}
	parent.RelatedSeriesIDs = linked
	if err := r.store.PutSeries(parent); err != nil {
		return fmt.Errorf("failed to link series %s to %s: %w", relatedID, parentID, err)
	}
	return nil
}

// DetectMediaType classifies a series title. The hint (from an upstream
// source's own classification) outranks title substring sniffing, and
// light-novel checks outrank manga checks at each level.
func DetectMediaType(title string, hint MediaType) MediaType {
	switch hint {
	case MediaTypeLightNovel:
		return MediaTypeLightNovel
	case MediaTypeManga:
		return MediaTypeManga
	}

	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "light novel"):
		return MediaTypeLightNovel
	case strings.Contains(lower, "manga"):
		return MediaTypeManga
	case strings.Contains(lower, "artbook"), strings.Contains(lower, "art book"):
		return MediaTypeArtbook
	case strings.Contains(lower, "guidebook"), strings.Contains(lower, "guide book"):
		return MediaTypeGuidebook
	}
	return MediaTypeManga
}
