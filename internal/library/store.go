package library

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store is the single source of truth for series, volumes and editions.
// It keeps the full entity graph in memory with secondary indices for the
// alternate lookup keys, and persists the whole snapshot to SQLite after
// every mutation. All mutations run under one mutex, so in-memory state and
// the persisted snapshot can never diverge partway (single-writer model).
type Store struct {
	mu     sync.Mutex
	dbPath string
	db     snapshotBackend
	now    func() time.Time
	loaded bool

	series   map[string]*Series
	volumes  map[string]*Volume
	editions map[string]*Edition

	// secondary indices, rebuilt on every upsert of the owning entity
	seriesByTitle  map[string]string // normalized title -> series id
	seriesByPageID map[string]string // wiki page id -> series id
	editionByISBN  map[string]string // isbn -> edition id
}

// NewStore creates a Store persisting to the SQLite database at dbPath.
// Call Open before use and Close when done.
func NewStore(dbPath string) *Store {
	return &Store{
		dbPath: dbPath,
		now:    time.Now,
	}
}

// Open connects to the snapshot database and loads the persisted graph.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := openSnapshotDB(s.dbPath)
		if err != nil {
			return err
		}
		s.db = db
	}
	return s.load()
}

// Close releases the database connection. The in-memory cache is dropped.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCache()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load reads the persisted snapshot into the in-memory cache. Calling it
// again is a no-op until ClearCache forces a re-read.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	snap, err := s.db.ReadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	s.applySnapshot(snap)
	s.loaded = true
	slog.Debug("Store loaded",
		"series", len(s.series),
		"volumes", len(s.volumes),
		"editions", len(s.editions))
	return nil
}

// Save persists the full in-memory snapshot. Mutators call this themselves;
// it is exported for callers that batch mutations via the Put*All variants.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	return s.save()
}

func (s *Store) save() error {
	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	if err := s.db.WriteSnapshot(snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ClearCache drops the in-memory cache so the next Load re-reads from disk.
// Used for test isolation and operator-triggered invalidation.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCache()
}

func (s *Store) clearCache() {
	s.loaded = false
	s.series = nil
	s.volumes = nil
	s.editions = nil
	s.seriesByTitle = nil
	s.seriesByPageID = nil
	s.editionByISBN = nil
}

func (s *Store) reset() {
	s.series = make(map[string]*Series)
	s.volumes = make(map[string]*Volume)
	s.editions = make(map[string]*Edition)
	s.seriesByTitle = make(map[string]string)
	s.seriesByPageID = make(map[string]string)
	s.editionByISBN = make(map[string]string)
}

// --- lookups ---

// GetSeries returns the Series with the given id.
func (s *Store) GetSeries(id string) (*Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.series[id]
	if !ok {
		return nil, false
	}
	return copySeries(sr), true
}

// GetSeriesByNormalizedTitle looks a Series up via the title index.
func (s *Store) GetSeriesByNormalizedTitle(normalized string) (*Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.seriesByTitle[normalized]
	if !ok {
		return nil, false
	}
	sr, ok := s.series[id]
	if !ok {
		return nil, false
	}
	return copySeries(sr), true
}

// GetSeriesByPageID looks a Series up via the wiki page id index.
func (s *Store) GetSeriesByPageID(pageID string) (*Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.seriesByPageID[pageID]
	if !ok {
		return nil, false
	}
	sr, ok := s.series[id]
	if !ok {
		return nil, false
	}
	return copySeries(sr), true
}

// GetVolume returns the Volume with the given id.
func (s *Store) GetVolume(id string) (*Volume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[id]
	if !ok {
		return nil, false
	}
	return copyVolume(v), true
}

// GetVolumeByNumber returns the Volume of a series with the given number.
// (seriesID, volumeNumber) is the resolution key for volumes.
func (s *Store) GetVolumeByNumber(seriesID string, number int) (*Volume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.volumes {
		if v.SeriesID == seriesID && v.VolumeNumber == number {
			return copyVolume(v), true
		}
	}
	return nil, false
}

// GetEdition returns the Edition with the given id.
func (s *Store) GetEdition(id string) (*Edition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.editions[id]
	if !ok {
		return nil, false
	}
	return copyEdition(e), true
}

// GetEditionByISBN looks an Edition up via the ISBN index.
func (s *Store) GetEditionByISBN(isbn string) (*Edition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.editionByISBN[isbn]
	if !ok {
		return nil, false
	}
	e, ok := s.editions[id]
	if !ok {
		return nil, false
	}
	return copyEdition(e), true
}

// EditionsByVolumeID returns every Edition whose volume links include the
// given volume, in edition id order for determinism.
func (s *Store) EditionsByVolumeID(volumeID string) []*Edition {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Edition
	for _, e := range s.editions {
		for _, vid := range e.VolumeIDs {
			if vid == volumeID {
				out = append(out, copyEdition(e))
				break
			}
		}
	}
	sortEditionsByID(out)
	return out
}

// AllSeries returns every Series in the store, id-ordered.
func (s *Store) AllSeries() []*Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Series, 0, len(s.series))
	for _, sr := range s.series {
		out = append(out, copySeries(sr))
	}
	sortSeriesByID(out)
	return out
}

// AllVolumes returns every Volume in the store, id-ordered.
func (s *Store) AllVolumes() []*Volume {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Volume, 0, len(s.volumes))
	for _, v := range s.volumes {
		out = append(out, copyVolume(v))
	}
	sortVolumesByID(out)
	return out
}

// AllEditions returns every Edition in the store, id-ordered.
func (s *Store) AllEditions() []*Edition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Edition, 0, len(s.editions))
	for _, e := range s.editions {
		out = append(out, copyEdition(e))
	}
	sortEditionsByID(out)
	return out
}

// --- mutators ---

// mutable rejects writes while the cache is not loaded: a Put against an
// unloaded store would persist a snapshot missing everything on disk.
func (s *Store) mutable() error {
	if !s.loaded {
		return fmt.Errorf("store not loaded, call Load first")
	}
	return nil
}

// PutSeries upserts a Series by id, refreshes the title and page-id indices
// and persists the snapshot. The store does not validate foreign keys; that
// is the resolvers' responsibility.
func (s *Store) PutSeries(sr *Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	s.putSeries(sr)
	return s.save()
}

// PutSeriesAll upserts several Series under one snapshot write.
func (s *Store) PutSeriesAll(all []*Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	for _, sr := range all {
		s.putSeries(sr)
	}
	return s.save()
}

func (s *Store) putSeries(sr *Series) {
	cp := copySeries(sr)
	s.stampUpdated(&cp.UpdatedAt, seriesUpdatedAt(s.series[cp.ID]))

	if old, ok := s.series[cp.ID]; ok {
		// drop stale index entries before re-indexing
		if old.NormalizedTitle != "" && s.seriesByTitle[old.NormalizedTitle] == old.ID {
			delete(s.seriesByTitle, old.NormalizedTitle)
		}
		if old.ExternalIDs.WikiPageID != "" && s.seriesByPageID[old.ExternalIDs.WikiPageID] == old.ID {
			delete(s.seriesByPageID, old.ExternalIDs.WikiPageID)
		}
	}
	s.series[cp.ID] = cp
	if cp.NormalizedTitle != "" {
		s.seriesByTitle[cp.NormalizedTitle] = cp.ID
	}
	if cp.ExternalIDs.WikiPageID != "" {
		s.seriesByPageID[cp.ExternalIDs.WikiPageID] = cp.ID
	}
}

// PutVolume upserts a Volume by id and persists the snapshot.
func (s *Store) PutVolume(v *Volume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	s.putVolume(v)
	return s.save()
}

// PutVolumeAll upserts several Volumes under one snapshot write.
func (s *Store) PutVolumeAll(all []*Volume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	for _, v := range all {
		s.putVolume(v)
	}
	return s.save()
}

func (s *Store) putVolume(v *Volume) {
	cp := copyVolume(v)
	s.stampUpdated(&cp.UpdatedAt, volumeUpdatedAt(s.volumes[cp.ID]))
	s.volumes[cp.ID] = cp
}

// PutEdition upserts an Edition by id, refreshes the ISBN index and
// persists the snapshot.
func (s *Store) PutEdition(e *Edition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	s.putEdition(e)
	return s.save()
}

func (s *Store) putEdition(e *Edition) {
	cp := copyEdition(e)
	s.stampUpdated(&cp.UpdatedAt, editionUpdatedAt(s.editions[cp.ID]))

	if old, ok := s.editions[cp.ID]; ok {
		if old.ISBN != "" && s.editionByISBN[old.ISBN] == old.ID {
			delete(s.editionByISBN, old.ISBN)
		}
	}
	s.editions[cp.ID] = cp
	if cp.ISBN != "" {
		s.editionByISBN[cp.ISBN] = cp.ID
	}
}

// stampUpdated refreshes an UpdatedAt timestamp, never moving it backwards
// relative to what the store already holds for the entity.
func (s *Store) stampUpdated(ts *time.Time, prev time.Time) {
	now := s.now()
	if now.Before(prev) {
		now = prev
	}
	*ts = now
}

// clock returns the store's current time. Resolvers stamp CreatedAt with
// it so tests can inject a fixed clock in one place.
func (s *Store) clock() time.Time {
	return s.now()
}

func seriesUpdatedAt(sr *Series) time.Time {
	if sr == nil {
		return time.Time{}
	}
	return sr.UpdatedAt
}

func volumeUpdatedAt(v *Volume) time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.UpdatedAt
}

func editionUpdatedAt(e *Edition) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.UpdatedAt
}
