// Package domrow converts between an HTML element tree and a flat set of
// rows, one row per element, and back.
//
// A row carries a pre-order identifier, a structural path from the root,
// the element's attributes as a JSON object, and its direct content. The
// content interleaves literal text with {id<N>} references to child rows.
package domrow

import (
	"errors"
	"strings"
)

var (
	// ErrRootNotFound is returned by Build when no row has id 0.
	ErrRootNotFound = errors.New("root element (id 0) not found")
	// ErrMalformedAttributes is returned when a row's attributes field is
	// not a JSON object.
	ErrMalformedAttributes = errors.New("malformed attributes")
	// ErrDuplicateID is returned by Build when two rows share an id.
	ErrDuplicateID = errors.New("duplicate row id")
)

// Diagnostic markers substituted for references that cannot be resolved.
const (
	// MissingPathMarker is emitted by the linearizer when a child element's
	// path has no id.
	MissingPathMarker = "[ID_NOT_FOUND]"
	// missingRefFormat is emitted by the builder for unresolvable {id<N>} tokens.
	missingRefFormat = "[ID_REF_ERROR: %s]"
)

// Row is one element of a linearized document.
type Row struct {
	ID         int     `json:"id"`
	Path       string  `json:"xpath"`
	Attributes string  `json:"attributes"` // JSON object, keys in document order
	Contents   *string `json:"contents"`   // nil when the element has no direct content
}

// HasContents reports whether the row carries usable content.
func (r Row) HasContents() bool {
	return r.Contents != nil && !IsAbsent(*r.Contents)
}

// IsAbsent reports whether a contents cell denotes a missing value. Tabular
// tools commonly spell missing values as "None" or "nan".
func IsAbsent(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "None", "nan", "NaN":
		return true
	}
	return false
}

// StringPtr returns a pointer to s; convenient for building rows by hand.
func StringPtr(s string) *string {
	return &s
}
