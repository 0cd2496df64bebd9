// Package caseid wraps mod unique_id strings in a newtype whose equality
// and map-key behavior are case-insensitive, so no call site can
// accidentally fall back to case-sensitive comparison.
package caseid

import "strings"

// ID is a case-insensitively compared mod unique_id. Two IDs constructed
// from strings that differ only in case are Equal and collide as map keys.
type ID struct {
	folded string
	raw    string
}

// New wraps raw in an ID. The raw form is preserved for display; the
// folded form (used for Equal and as a map key via Key) is lower-cased.
func New(raw string) ID {
	return ID{folded: strings.ToLower(raw), raw: raw}
}

// String returns the original, unfolded string.
func (id ID) String() string { return id.raw }

// Key returns the case-folded form, suitable as a map key.
func (id ID) Key() string { return id.folded }

// Equal reports whether id and other refer to the same identity,
// ignoring case.
func (id ID) Equal(other ID) bool { return id.folded == other.folded }

// IsZero reports whether id was never assigned a non-empty value.
func (id ID) IsZero() bool { return id.folded == "" }
