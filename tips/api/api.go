// Package api defines the tip stream data model shared by the segmenter, the hint resolver and the
// surrounding fetch/render packages.
//
// A tip stream is the per-character annotation of one piece of source text, as returned by the typing
// tips service: one Token per character, in order, with the Next field encoding how characters group
// into multi-character words.
package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a DisplayUnit.
type Kind int

const (
	// KindHistory is a single already-typed token. Typed tokens are never grouped.
	KindHistory Kind = iota
	// KindWordGroup is the full run of not-yet-typed tokens that form one multi-character word.
	KindWordGroup
	// KindSingleChar is a not-yet-typed token that is a word by itself.
	KindSingleChar
)

func (k Kind) String() string {
	switch k {
	case KindHistory:
		return "History"
	case KindWordGroup:
		return "WordGroup"
	case KindSingleChar:
		return "SingleChar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DisplayUnit is one visual grouping of tokens, recomputed on every render.
type DisplayUnit struct {
	Kind Kind

	// Start is the index in the tip stream of the first member.
	Start int

	// Members holds one token for KindHistory and KindSingleChar units, and the whole ordered run of the
	// word for KindWordGroup units.
	Members []Token

	// GroupHint is the code of the whole word, shown once per group. Only set for KindWordGroup units,
	// where it is the WordsCode of the last member.
	GroupHint *string
}

// End returns the index one past the last member.
func (u DisplayUnit) End() int {
	return u.Start + len(u.Members)
}

// Text returns the concatenated characters of the unit members.
func (u DisplayUnit) Text() string {
	var text string
	for _, t := range u.Members {
		text += t.Word
	}
	return text
}

// ErrInvalidArgument is returned (wrapped) when the caller passes an argument outside its domain,
// e.g. a negative typed length.
var ErrInvalidArgument = errors.New("invalid argument")

// DataIntegrityError reports a tip stream whose Next references are inconsistent, and which therefore
// can't be segmented without misgrouping words.
type DataIntegrityError struct {
	// Index of the offending token.
	Index int
	// Ref is the index the offending token references when the inconsistency is in that reference, -1
	// otherwise.
	Ref int
	// Reason describes the violated constraint.
	Reason string
}

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("malformed tip stream at token %d: %s", e.Index, e.Reason)
}

// NewDataIntegrityError creates a DataIntegrityError for the token at index.
func NewDataIntegrityError(index int, format string, args ...any) *DataIntegrityError {
	return &DataIntegrityError{Index: index, Ref: -1, Reason: fmt.Sprintf(format, args...)}
}

// NewReferenceError creates a DataIntegrityError for the token at index whose reference to ref is
// inconsistent.
func NewReferenceError(index, ref int, format string, args ...any) *DataIntegrityError {
	return &DataIntegrityError{Index: index, Ref: ref, Reason: fmt.Sprintf(format, args...)}
}

// CheckTypedLength rejects negative typed lengths and clamps values above numTokens to numTokens.
func CheckTypedLength(typedLength, numTokens int) (int, error) {
	if typedLength < 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "typed length %d is negative", typedLength)
	}
	return min(typedLength, numTokens), nil
}
