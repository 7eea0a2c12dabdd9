package segment

import (
	"fmt"

	"github.com/bbtyping/go-typingtips/tips/api"
)

// Class is the role a token plays in the segmentation of a tip stream, for a given typed length.
type Class int

const (
	// ClassHistory marks an already-typed token.
	ClassHistory Class = iota
	// ClassWordHead marks the first pending token of a word group.
	ClassWordHead
	// ClassWordMember marks a pending token inside an open word group, neither its first nor its last.
	ClassWordMember
	// ClassWordEnd marks the last token of a word group: the group is emitted on it.
	ClassWordEnd
	// ClassSingleChar marks a pending token that stands by itself.
	ClassSingleChar
)

func (c Class) String() string {
	switch c {
	case ClassHistory:
		return "History"
	case ClassWordHead:
		return "WordHead"
	case ClassWordMember:
		return "WordMember"
	case ClassWordEnd:
		return "WordEnd"
	case ClassSingleChar:
		return "SingleChar"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Validate checks that the Next references of tokens are mutually consistent:
//
//   - every Next is a valid index;
//   - a forward reference points to a token that closes the word, either by referencing itself or by
//     back-referencing the start of the word;
//   - a back reference points to a token that forward-references it.
//
// It returns a *api.DataIntegrityError for the first offending token, with Ref set to the index it
// references.
func Validate(tokens []api.Token) error {
	for ii, tok := range tokens {
		next := tok.Next
		switch {
		case next < 0 || next >= len(tokens):
			return api.NewReferenceError(ii, next, "next=%d is out of range [0, %d)", next, len(tokens))
		case next > ii:
			end := tokens[next].Next
			if end == next {
				continue
			}
			if end >= 0 && end <= ii && tokens[end].Next == next {
				continue
			}
			return api.NewReferenceError(ii, next,
				"forward reference to %d, but token %d has next=%d instead of closing the word", next, next, end)
		case next < ii:
			if tokens[next].Next != ii {
				return api.NewReferenceError(ii, next,
					"back reference to %d, but token %d has next=%d instead of referencing %d",
					next, next, tokens[next].Next, ii)
			}
		}
	}
	return nil
}

// boundary returns the Next of the token at index ii, with back references (the closing token of a word
// pointing to the word start) normalized to self references.
func boundary(tokens []api.Token, ii int) int {
	next := tokens[ii].Next
	if next < ii {
		return ii
	}
	return next
}

// Classify validates tokens and assigns a Class to each of them, given that the first typedLength tokens
// have already been typed.
//
// typedLength must not be negative, otherwise an error wrapping api.ErrInvalidArgument is returned. Values
// larger than len(tokens) are treated as len(tokens).
//
// Classification is a single left-to-right scan keeping the last index of the open word ("boundary",
// -1 before the first word). A token whose boundary is its own index is ambiguous: it is a member of the
// open word if before its boundary, its end if at its boundary and a single character otherwise.
//
// Inputs that would make the scan silently drop tokens are reported as *api.DataIntegrityError.
func Classify(tokens []api.Token, typedLength int) ([]Class, error) {
	typedLength, err := api.CheckTypedLength(typedLength, len(tokens))
	if err != nil {
		return nil, err
	}
	if err := Validate(tokens); err != nil {
		return nil, err
	}

	classes := make([]Class, len(tokens))
	prevBoundary := -1
	openHead := -1 // Index of the head of the open word, -1 if none is open.
	for ii := range tokens {
		if ii < typedLength {
			classes[ii] = ClassHistory
			continue
		}
		next := boundary(tokens, ii)
		switch {
		case next > prevBoundary && next != ii && ii != prevBoundary:
			if openHead >= 0 {
				return nil, api.NewDataIntegrityError(ii,
					"starts a word ending at %d while the word at %d (ending at %d) is still open",
					next, openHead, prevBoundary)
			}
			prevBoundary = next
			openHead = ii
			classes[ii] = ClassWordHead

		case next == ii:
			switch {
			case next < prevBoundary:
				if openHead < 0 {
					return nil, api.NewDataIntegrityError(ii, "word member outside of any open word")
				}
				classes[ii] = ClassWordMember
			case next == prevBoundary:
				classes[ii] = ClassWordEnd
				openHead = -1
			default:
				classes[ii] = ClassSingleChar
			}

		case ii == prevBoundary:
			// The token closing the open word references past it: the guarded and unguarded head tests
			// disagree on it.
			return nil, api.NewDataIntegrityError(ii,
				"expected to close the word started at %d, but references %d", openHead, next)

		case ii < prevBoundary && openHead >= 0:
			// Nested word inside a larger open word, e.g. "好想" in "我好想你".
			classes[ii] = ClassWordMember

		default:
			return nil, api.NewDataIntegrityError(ii, "references %d but is not inside any open word", next)
		}
	}
	if openHead >= 0 {
		return nil, api.NewDataIntegrityError(openHead,
			"word starting here never reaches its closing token %d", prevBoundary)
	}
	return classes, nil
}
