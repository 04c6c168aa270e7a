package library

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/tsundoku/internal/errors"
	"github.com/lepinkainen/tsundoku/internal/ident"
)

// EditionInput describes one release of a volume as supplied by a source.
type EditionInput struct {
	ISBN        string
	Format      Format
	Language    string
	ReleaseDate string
}

// VolumeInput describes one volume as supplied by a source. Editions may
// be empty, meaning the volume's releases are not known yet.
type VolumeInput struct {
	SeriesID     string
	VolumeNumber int
	Title        string
	Editions     []EditionInput
}

// FindOrCreateEdition resolves an Edition by ISBN. Editions are immutable
// once created apart from volume-link attachment, so an existing edition is
// returned as-is and the input's other fields are ignored.
func (r *Resolver) FindOrCreateEdition(input EditionInput) (*Edition, error) {
	if input.ISBN == "" {
		return nil, fmt.Errorf("edition requires an isbn")
	}

	unlock := r.locks.acquire("isbn:" + input.ISBN)
	defer unlock()

	if e, ok := r.store.GetEditionByISBN(input.ISBN); ok {
		return e, nil
	}

	now := r.store.clock()
	e := &Edition{
		ID:          ident.NewID(ident.KindEdition),
		ISBN:        input.ISBN,
		Format:      input.Format,
		Language:    input.Language,
		ReleaseDate: input.ReleaseDate,
		VolumeIDs:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.Format == "" {
		e.Format = FormatPhysical
	}
	if e.Language == "" {
		e.Language = "en"
	}
	if err := r.store.PutEdition(e); err != nil {
		return nil, fmt.Errorf("failed to create edition %s: %w", input.ISBN, err)
	}
	return e, nil
}

// FindOrCreateVolume resolves a Volume by its (seriesID, volumeNumber)
// key. An existing volume's edition list grows by union with the editions
// supplied here; it is never replaced. Fails with NotFoundError when the
// series does not exist, so dangling ownership is rejected before anything
// is persisted.
func (r *Resolver) FindOrCreateVolume(input VolumeInput) (*Volume, error) {
	if _, ok := r.store.GetSeries(input.SeriesID); !ok {
		return nil, errors.NewNotFoundError("series", input.SeriesID)
	}

	key := fmt.Sprintf("volume:%s:%d", input.SeriesID, input.VolumeNumber)
	unlock := r.locks.acquire(key)
	defer unlock()

	// resolve editions first so both branches link the same ids
	editionIDs := make([]string, 0, len(input.Editions))
	for _, ei := range input.Editions {
		e, err := r.FindOrCreateEdition(ei)
		if err != nil {
			return nil, err
		}
		editionIDs = append(editionIDs, e.ID)
	}

	v, found := r.store.GetVolumeByNumber(input.SeriesID, input.VolumeNumber)
	if found {
		if input.Title != "" && v.Title != "" && input.Title != v.Title {
			// Two titles under one number usually means a fractional or
			// special volume the source numbered like a regular one.
			// Keep the existing title rather than overwrite.
			slog.Warn("Volume number collision with differing titles",
				"series", input.SeriesID,
				"number", input.VolumeNumber,
				"existing", v.Title,
				"incoming", input.Title)
		}
		if v.Title == "" {
			v.Title = input.Title
		}
		for _, eid := range editionIDs {
			v.EditionIDs = appendIfMissing(v.EditionIDs, eid)
		}
	} else {
		now := r.store.clock()
		v = &Volume{
			ID:           ident.NewID(ident.KindVolume),
			SeriesID:     input.SeriesID,
			VolumeNumber: input.VolumeNumber,
			Title:        input.Title,
			EditionIDs:   editionIDs,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	if err := r.store.PutVolume(v); err != nil {
		return nil, fmt.Errorf("failed to save volume %d of series %s: %w",
			input.VolumeNumber, input.SeriesID, err)
	}

	// attach the back-references on the edition side
	for _, eid := range editionIDs {
		if err := r.linkEditionToVolume(eid, v.ID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// FindOrCreateVolumes resolves a batch in input order. Repeated
// (seriesID, volumeNumber) keys within the batch converge on one volume
// because each call observes the previous call's writes. Resolution is
// best-effort: a failure partway leaves earlier volumes persisted.
func (r *Resolver) FindOrCreateVolumes(inputs []VolumeInput) ([]*Volume, error) {
	out := make([]*Volume, 0, len(inputs))
	for _, in := range inputs {
		v, err := r.FindOrCreateVolume(in)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LinkVolumeToEdition adds the cross-reference on both sides of the
// volume/edition relation. Linking an already-linked pair is a no-op.
func (r *Resolver) LinkVolumeToEdition(volumeID, editionID string) error {
	v, ok := r.store.GetVolume(volumeID)
	if !ok {
		return errors.NewNotFoundError("volume", volumeID)
	}
	if _, ok := r.store.GetEdition(editionID); !ok {
		return errors.NewNotFoundError("edition", editionID)
	}

	linked := appendIfMissing(v.EditionIDs, editionID)
	if len(linked) != len(v.EditionIDs) {
		v.EditionIDs = linked
		if err := r.store.PutVolume(v); err != nil {
			return fmt.Errorf("failed to link volume %s to edition %s: %w", volumeID, editionID, err)
		}
	}
	return r.linkEditionToVolume(editionID, volumeID)
}

func (r *Resolver) linkEditionToVolume(editionID, volumeID string) error {
	e, ok := r.store.GetEdition(editionID)
	if !ok {
		return errors.NewNotFoundError("edition", editionID)
	}
	linked := appendIfMissing(e.VolumeIDs, volumeID)
	if len(linked) == len(e.VolumeIDs) {
		return nil
	}
	e.VolumeIDs = linked
	if err := r.store.PutEdition(e); err != nil {
		return fmt.Errorf("failed to link edition %s to volume %s: %w", editionID, volumeID, err)
	}
	return nil
}

// VolumeMatch is the result of an ISBN lookup: the edition, every volume
// it contains (one for a normal release, several for an omnibus) and the
// series owning the first volume.
type VolumeMatch struct {
	Edition *Edition  `json:"edition"`
	Volumes []*Volume `json:"volumes"`
	Series  *Series   `json:"series,omitempty"`
}

// ResolveByISBN resolves an ISBN to its edition, the volumes the edition
// contains and their series. An omnibus yields every linked volume in link
// order; callers needing a single one pass the volume number to
// ResolveByISBNForVolume. Returns false when the ISBN is unknown.
func (r *Resolver) ResolveByISBN(isbn string) (*VolumeMatch, bool) {
	e, ok := r.store.GetEditionByISBN(isbn)
	if !ok {
		return nil, false
	}
	match := &VolumeMatch{Edition: e}
	for _, vid := range e.VolumeIDs {
		if v, ok := r.store.GetVolume(vid); ok {
			match.Volumes = append(match.Volumes, v)
		}
	}
	if len(match.Volumes) > 0 {
		if sr, ok := r.store.GetSeries(match.Volumes[0].SeriesID); ok {
			match.Series = sr
		}
	}
	return match, true
}

// ResolveByISBNForVolume narrows an omnibus lookup to the volume with the
// given number. Returns false when the ISBN is unknown or the edition does
// not contain that number.
func (r *Resolver) ResolveByISBNForVolume(isbn string, volumeNumber int) (*VolumeMatch, bool) {
	match, ok := r.ResolveByISBN(isbn)
	if !ok {
		return nil, false
	}
	for _, v := range match.Volumes {
		if v.VolumeNumber == volumeNumber {
			narrowed := &VolumeMatch{Edition: match.Edition, Volumes: []*Volume{v}}
			if sr, ok := r.store.GetSeries(v.SeriesID); ok {
				narrowed.Series = sr
			}
			return narrowed, true
		}
	}
	return nil, false
}
