package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

// snapshot is the durable representation of the store: the three keyed
// collections plus the derived secondary indices. It is loaded wholesale
// and saved wholesale; there are no partial writes.
type snapshot struct {
	Series         map[string]*Series  `json:"series"`
	Volumes        map[string]*Volume  `json:"volumes"`
	Editions       map[string]*Edition `json:"editions"`
	SeriesByTitle  map[string]string   `json:"series_by_title"`
	SeriesByPageID map[string]string   `json:"series_by_page_id"`
	EditionByISBN  map[string]string   `json:"edition_by_isbn"`
}

// snapshotBackend abstracts the durable storage for a snapshot.
type snapshotBackend interface {
	ReadSnapshot() (*snapshot, error)
	WriteSnapshot(*snapshot) error
	Close() error
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshot (
	section TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
`

// section names in the snapshot table
const (
	sectionSeries         = "series"
	sectionVolumes        = "volumes"
	sectionEditions       = "editions"
	sectionSeriesByTitle  = "series_by_title"
	sectionSeriesByPageID = "series_by_page_id"
	sectionEditionByISBN  = "edition_by_isbn"
)

// sqliteSnapshot persists snapshots as one JSON document per section in a
// single SQLite table. The whole table is replaced inside one transaction
// on every save, so the collections and their indices can never be
// persisted out of sync with each other.
type sqliteSnapshot struct {
	db *sql.DB
}

// openSnapshotDB opens (creating if necessary) the snapshot database.
func openSnapshotDB(dbPath string) (*sqliteSnapshot, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("failed to create snapshot table: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return &sqliteSnapshot{db: db}, nil
}

// ReadSnapshot loads every section. A database with no rows yields an
// empty snapshot.
func (s *sqliteSnapshot) ReadSnapshot() (*snapshot, error) {
	rows, err := s.db.Query(`SELECT section, data FROM snapshot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snap := &snapshot{}
	for rows.Next() {
		var section, data string
		if err := rows.Scan(&section, &data); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := snap.decodeSection(section, []byte(data)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	return snap, nil
}

func (snap *snapshot) decodeSection(section string, data []byte) error {
	var dst any
	switch section {
	case sectionSeries:
		dst = &snap.Series
	case sectionVolumes:
		dst = &snap.Volumes
	case sectionEditions:
		dst = &snap.Editions
	case sectionSeriesByTitle:
		dst = &snap.SeriesByTitle
	case sectionSeriesByPageID:
		dst = &snap.SeriesByPageID
	case sectionEditionByISBN:
		dst = &snap.EditionByISBN
	default:
		// unknown sections are ignored so old databases stay readable
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode snapshot section %s: %w", section, err)
	}
	return nil
}

// WriteSnapshot replaces the whole snapshot table in one transaction.
func (s *sqliteSnapshot) WriteSnapshot(snap *snapshot) error {
	sections, err := snap.encodeSections()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback is a no-op after a successful commit
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM snapshot`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO snapshot (section, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sec := range sections {
		if _, err := stmt.Exec(sec.name, string(sec.data)); err != nil {
			return fmt.Errorf("failed to write snapshot section %s: %w", sec.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

type encodedSection struct {
	name string
	data []byte
}

func (snap *snapshot) encodeSections() ([]encodedSection, error) {
	parts := []struct {
		name string
		src  any
	}{
		{sectionSeries, snap.Series},
		{sectionVolumes, snap.Volumes},
		{sectionEditions, snap.Editions},
		{sectionSeriesByTitle, snap.SeriesByTitle},
		{sectionSeriesByPageID, snap.SeriesByPageID},
		{sectionEditionByISBN, snap.EditionByISBN},
	}
	out := make([]encodedSection, 0, len(parts))
	for _, p := range parts {
		data, err := json.Marshal(p.src)
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot section %s: %w", p.name, err)
		}
		out = append(out, encodedSection{name: p.name, data: data})
	}
	return out, nil
}

// Close closes the underlying database.
func (s *sqliteSnapshot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// --- store <-> snapshot conversion ---

func (s *Store) buildSnapshot() (*snapshot, error) {
	return &snapshot{
		Series:         s.series,
		Volumes:        s.volumes,
		Editions:       s.editions,
		SeriesByTitle:  s.seriesByTitle,
		SeriesByPageID: s.seriesByPageID,
		EditionByISBN:  s.editionByISBN,
	}, nil
}

func (s *Store) applySnapshot(snap *snapshot) {
	s.reset()
	for id, sr := range snap.Series {
		s.series[id] = copySeries(sr)
	}
	for id, v := range snap.Volumes {
		s.volumes[id] = copyVolume(v)
	}
	for id, e := range snap.Editions {
		s.editions[id] = copyEdition(e)
	}
	// Indices travel with the snapshot, but a rebuild keeps databases
	// written before an index section existed loadable.
	if len(snap.SeriesByTitle) > 0 || len(snap.SeriesByPageID) > 0 || len(snap.EditionByISBN) > 0 {
		for k, v := range snap.SeriesByTitle {
			s.seriesByTitle[k] = v
		}
		for k, v := range snap.SeriesByPageID {
			s.seriesByPageID[k] = v
		}
		for k, v := range snap.EditionByISBN {
			s.editionByISBN[k] = v
		}
		return
	}
	s.rebuildIndices()
}

func (s *Store) rebuildIndices() {
	for id, sr := range s.series {
		if sr.NormalizedTitle != "" {
			s.seriesByTitle[sr.NormalizedTitle] = id
		}
		if sr.ExternalIDs.WikiPageID != "" {
			s.seriesByPageID[sr.ExternalIDs.WikiPageID] = id
		}
	}
	for id, e := range s.editions {
		if e.ISBN != "" {
			s.editionByISBN[e.ISBN] = id
		}
	}
}

// --- copies and ordering helpers ---

// The copy helpers keep id lists non-nil so they always serialize as
// JSON arrays.
func copySeries(sr *Series) *Series {
	cp := *sr
	cp.VolumeIDs = copyIDs(sr.VolumeIDs)
	cp.RelatedSeriesIDs = append([]string(nil), sr.RelatedSeriesIDs...)
	return &cp
}

func copyVolume(v *Volume) *Volume {
	cp := *v
	cp.EditionIDs = copyIDs(v.EditionIDs)
	return &cp
}

func copyEdition(e *Edition) *Edition {
	cp := *e
	cp.VolumeIDs = copyIDs(e.VolumeIDs)
	return &cp
}

func copyIDs(ids []string) []string {
	return append(make([]string, 0, len(ids)), ids...)
}

func sortSeriesByID(all []*Series) {
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
}

func sortVolumesByID(all []*Volume) {
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
}

func sortEditionsByID(all []*Edition) {
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
}
