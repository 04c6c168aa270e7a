// Package ident generates entity identifiers and canonical title keys.
package ident

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Kind tags an identifier with the entity type it belongs to.
type Kind string

const (
	KindSeries  Kind = "s"
	KindVolume  Kind = "v"
	KindEdition Kind = "e"
)

// NewID returns a new identifier of the form "<kind>_<32 hex chars>".
// The random part carries 122 bits of entropy, so collisions are not a
// practical concern for the lifetime of a store.
func NewID(kind Kind) string {
	id := uuid.New()
	return string(kind) + "_" + hex.EncodeToString(id[:])
}

// KindOf reports the Kind encoded in an identifier, or "" when the value
// does not look like one of ours.
func KindOf(id string) Kind {
	if len(id) < 2 || id[1] != '_' {
		return ""
	}
	switch Kind(id[:1]) {
	case KindSeries, KindVolume, KindEdition:
		return Kind(id[:1])
	}
	return ""
}

// NormalizeTitle converts a title to a canonical lookup key: lowercase,
// non-alphanumeric runs collapsed to single spaces, trimmed. The result is
// stable under repeated application, and defined for every input including
// the empty string.
func NormalizeTitle(title string) string {
	title = strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(title))

	prevSpace := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		// treat everything else as a space separator
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
