package ingest

import (
	"github.com/lepinkainen/tsundoku/internal/ident"
	"github.com/lepinkainen/tsundoku/internal/library"
)

// Entity is the union result of a read-path lookup. Exactly one of the
// fields is set, depending on what the query resolved to.
type Entity struct {
	Series  *library.Series      `json:"series,omitempty"`
	Volume  *library.Volume      `json:"volume,omitempty"`
	Edition *library.Edition     `json:"edition,omitempty"`
	Match   *library.VolumeMatch `json:"match,omitempty"`
}

// ResolveEntity resolves a durable id, an ISBN, or a human-entered title
// to an entity without creating anything. Returns false when nothing
// matches.
func (o *Orchestrator) ResolveEntity(query string) (*Entity, bool) {
	store := o.resolver.Store()

	switch ident.KindOf(query) {
	case ident.KindSeries:
		if sr, ok := store.GetSeries(query); ok {
			return &Entity{Series: sr}, true
		}
		return nil, false
	case ident.KindVolume:
		if v, ok := store.GetVolume(query); ok {
			return &Entity{Volume: v}, true
		}
		return nil, false
	case ident.KindEdition:
		if e, ok := store.GetEdition(query); ok {
			return &Entity{Edition: e}, true
		}
		return nil, false
	}

	if looksLikeISBN(query) {
		if match, ok := o.ResolveByISBN(query); ok {
			return &Entity{Match: match}, true
		}
		return nil, false
	}

	if sr, ok := store.GetSeriesByNormalizedTitle(ident.NormalizeTitle(query)); ok {
		return &Entity{Series: sr}, true
	}
	return nil, false
}

// ResolveByISBN is the read-path ISBN lookup: edition, linked volumes and
// owning series. Never creates.
func (o *Orchestrator) ResolveByISBN(isbn string) (*library.VolumeMatch, bool) {
	return o.resolver.ResolveByISBN(isbn)
}

// ResolveByISBNWithVolume narrows an omnibus ISBN lookup to one volume
// number. Never creates.
func (o *Orchestrator) ResolveByISBNWithVolume(isbn string, volumeNumber int) (*library.VolumeMatch, bool) {
	return o.resolver.ResolveByISBNForVolume(isbn, volumeNumber)
}

// Store exposes the underlying store for read-path callers.
func (o *Orchestrator) Store() *library.Store {
	return o.resolver.Store()
}

// looksLikeISBN reports whether a query string is shaped like an ISBN-10
// or ISBN-13 (digits with optional separators, X check digit allowed).
func looksLikeISBN(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == 'X' || r == 'x':
			digits++
		case r == '-' || r == ' ':
			// separator
		default:
			return false
		}
	}
	return digits == 10 || digits == 13
}
