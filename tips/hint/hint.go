// Package hint resolves the input-method code the user has to type next.
package hint

import (
	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/bbtyping/go-typingtips/tips/segment"
	"github.com/pkg/errors"
)

// Current returns the code hint for the token under the cursor: the code of its whole word if it is part
// of one, its own code otherwise.
//
// It returns false if everything was typed (typedLength >= len(tokens)), and an error wrapping
// api.ErrInvalidArgument if typedLength is negative. It doesn't validate tokens.
func Current(tokens []api.Token, typedLength int) (string, bool, error) {
	typedLength, err := api.CheckTypedLength(typedLength, len(tokens))
	if err != nil {
		return "", false, err
	}
	if typedLength == len(tokens) {
		return "", false, nil
	}
	return tokens[typedLength].Code(), true, nil
}

// Resolver answers hint queries for one validated tip stream, as the cursor moves over it.
type Resolver struct {
	tokens []api.Token
}

// NewResolver validates tokens and returns a Resolver over them.
func NewResolver(tokens []api.Token) (*Resolver, error) {
	if err := segment.Validate(tokens); err != nil {
		return nil, errors.WithMessagef(err, "can't resolve hints")
	}
	return &Resolver{tokens: tokens}, nil
}

// Len returns the number of tokens in the tip stream.
func (r *Resolver) Len() int {
	return len(r.tokens)
}

// Current is the same as the package-level Current over the Resolver tip stream.
func (r *Resolver) Current(typedLength int) (string, bool, error) {
	return Current(r.tokens, typedLength)
}

// Word returns the text the hint at typedLength is for: the whole word when the hint is a word code, the
// character alone otherwise.
func (r *Resolver) Word(typedLength int) (string, bool, error) {
	typedLength, err := api.CheckTypedLength(typedLength, len(r.tokens))
	if err != nil {
		return "", false, err
	}
	if typedLength == len(r.tokens) {
		return "", false, nil
	}
	tok := r.tokens[typedLength]
	if tok.Words != nil && tok.HasWordsCode() {
		return *tok.Words, true, nil
	}
	return tok.Word, true, nil
}

// Segment returns the display units at typedLength, see segment.Segment.
func (r *Resolver) Segment(typedLength int) ([]api.DisplayUnit, error) {
	return segment.Units(r.tokens, typedLength)
}
