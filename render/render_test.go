package render

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/bbtyping/go-typingtips/internal/tipstest"
	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/bbtyping/go-typingtips/tips/segment"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlainRenderer renders without colors, so output can be compared as text.
func newPlainRenderer() *Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	return New(lr)
}

func trimLines(s string) []string {
	lines := strings.Split(s, "\n")
	for ii, line := range lines {
		lines[ii] = strings.TrimRight(line, " ")
	}
	return lines
}

func TestUnits(t *testing.T) {
	tokens := tipstest.New().
		Single("忽", "hu").
		Word("如一", "ry").
		Single("夜", "ye").
		Tokens()
	units, err := segment.Segment(tokens, 0)
	require.NoError(t, err)
	out := newPlainRenderer().Units(units)
	assert.Equal(t, []string{"忽 如一夜", "   ry"}, trimLines(out))
}

func TestUnits_History(t *testing.T) {
	tokens := tipstest.New().Word("如一", "ry").Single("夜", "ye").Tokens()
	units, err := segment.Segment(tokens, 2)
	require.NoError(t, err)
	out := newPlainRenderer().Units(units)
	assert.Equal(t, []string{"如一夜"}, trimLines(out))
}

func TestUnits_Wrap(t *testing.T) {
	tokens := tipstest.New().
		Word("春风", "cf").
		Word("春风", "cf").
		Word("春风", "cf").
		Tokens()
	units, err := segment.Segment(tokens, 0)
	require.NoError(t, err)
	// Each group takes 5 cells: the margin and two wide characters.
	out := newPlainRenderer().WithWidth(10).Units(units)
	assert.Equal(t, []string{" 春风 春风", " cf   cf", " 春风", " cf"}, trimLines(out))
}

func TestUnits_Empty(t *testing.T) {
	units, err := segment.Segment(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, newPlainRenderer().Units(units))
}

func TestDisplayWord(t *testing.T) {
	assert.Equal(t, "　", displayWord(" "))
	assert.Equal(t, "a", displayWord("a"))
	assert.Equal(t, "忽", displayWord("忽"))
}

func TestBadge(t *testing.T) {
	assert.Equal(t, " ry ", newPlainRenderer().Badge("ry"))
}

func TestDescribe(t *testing.T) {
	var tok api.Token
	require.NoError(t, json.Unmarshal(
		[]byte(`{"next": 2, "word": "如", "wordCode": "ru", "words": "如一", "wordsCode": "ry", "freq": 3, "tags": ["x"]}`),
		&tok))
	assert.Equal(t, []string{
		"freq      - 3",
		"next      - 2",
		"tags      - [\"x\"]",
		"type      - null",
		"word      - 如",
		"wordCode  - ru",
		"words     - 如一",
		"wordsCode - ry",
	}, Describe(tok))
}
