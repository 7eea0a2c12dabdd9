// Package segment partitions a tip stream into display units: already-typed characters, multi-character
// word groups and standalone characters.
package segment

import (
	"iter"

	"github.com/bbtyping/go-typingtips/tips/api"
)

// Segment returns the display units of tokens, given that the first typedLength tokens have already been
// typed.
//
// The tokens are validated and classified (see Classify) before Segment returns, so the returned sequence
// itself can't fail. Concatenating the Members of all units, in order, yields tokens.
//
// The sequence is lazy and can be iterated any number of times. The Members of the units share memory
// with tokens, which must not be modified.
func Segment(tokens []api.Token, typedLength int) (iter.Seq[api.DisplayUnit], error) {
	classes, err := Classify(tokens, typedLength)
	if err != nil {
		return nil, err
	}
	return func(yield func(api.DisplayUnit) bool) {
		head := -1
		for ii, class := range classes {
			var unit api.DisplayUnit
			switch class {
			case ClassHistory:
				unit = single(api.KindHistory, tokens, ii)
			case ClassSingleChar:
				unit = single(api.KindSingleChar, tokens, ii)
			case ClassWordHead:
				head = ii
				continue
			case ClassWordMember:
				continue
			case ClassWordEnd:
				unit = api.DisplayUnit{
					Kind:      api.KindWordGroup,
					Start:     head,
					Members:   tokens[head : ii+1 : ii+1],
					GroupHint: tokens[ii].WordsCode,
				}
				head = -1
			}
			if !yield(unit) {
				return
			}
		}
	}, nil
}

func single(kind api.Kind, tokens []api.Token, ii int) api.DisplayUnit {
	return api.DisplayUnit{
		Kind:    kind,
		Start:   ii,
		Members: tokens[ii : ii+1 : ii+1],
	}
}

// Units is like Segment, but collects the display units into a slice.
func Units(tokens []api.Token, typedLength int) ([]api.DisplayUnit, error) {
	seq, err := Segment(tokens, typedLength)
	if err != nil {
		return nil, err
	}
	var units []api.DisplayUnit
	for unit := range seq {
		units = append(units, unit)
	}
	return units, nil
}
