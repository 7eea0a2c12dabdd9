package segment

import (
	"testing"

	"github.com/bbtyping/go-typingtips/internal/tipstest"
	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func drawUnits(t *rapid.T) (tipstest.Generated, int, []api.DisplayUnit) {
	gen := tipstest.Stream().Draw(t, "stream")
	typed := rapid.IntRange(0, len(gen.Tokens)+2).Draw(t, "typed")
	units, err := Units(gen.Tokens, typed)
	require.NoError(t, err)
	return gen, typed, units
}

// TestProperty_Completeness verifies that the members of all units reconstruct the tip stream.
func TestProperty_Completeness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen, _, units := drawUnits(t)
		var members []api.Token
		next := 0
		for _, u := range units {
			require.Equal(t, next, u.Start, "units must be contiguous")
			require.NotEmpty(t, u.Members)
			members = append(members, u.Members...)
			next = u.End()
		}
		require.Equal(t, len(gen.Tokens), len(members))
		for ii := range members {
			require.Equal(t, gen.Tokens[ii], members[ii], "token %d", ii)
		}
	})
}

// TestProperty_HistoryPrecedence verifies that every typed token is a History unit of its own, and that no
// pending token is.
func TestProperty_HistoryPrecedence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, typed, units := drawUnits(t)
		for _, u := range units {
			if u.Start < typed {
				require.Equal(t, api.KindHistory, u.Kind, "unit at %d", u.Start)
				require.Len(t, u.Members, 1)
			} else {
				require.NotEqual(t, api.KindHistory, u.Kind, "unit at %d", u.Start)
			}
		}
	})
}

// TestProperty_GroupHintPlacement verifies that only word groups carry a hint, and that it is the word
// code of their last member.
func TestProperty_GroupHintPlacement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, _, units := drawUnits(t)
		for _, u := range units {
			if u.Kind != api.KindWordGroup {
				require.Nil(t, u.GroupHint, "unit at %d", u.Start)
				continue
			}
			require.GreaterOrEqual(t, len(u.Members), 2)
			require.Equal(t, u.Members[len(u.Members)-1].WordsCode, u.GroupHint)
		}
	})
}

// TestProperty_UntypedGroupsMatchWords verifies that with nothing typed, the units are exactly the top-level
// words of the stream.
func TestProperty_UntypedGroupsMatchWords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := tipstest.Stream().Draw(t, "stream")
		units, err := Units(gen.Tokens, 0)
		require.NoError(t, err)
		require.Len(t, units, len(gen.Spans))
		for ii, span := range gen.Spans {
			u := units[ii]
			require.Equal(t, span.Start, u.Start)
			require.Equal(t, span.Len(), len(u.Members))
			if span.Len() == 1 {
				require.Equal(t, api.KindSingleChar, u.Kind)
			} else {
				require.Equal(t, api.KindWordGroup, u.Kind)
			}
		}
	})
}
