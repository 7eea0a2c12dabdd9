// Package render draws display units and hints on a terminal with lipgloss.
//
// Already-typed characters are shown on a dark background, pending word groups are underlined with their
// word code printed beneath, and pending single characters are shown plain.
package render

import (
	"iter"
	"strings"

	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// Styles used to draw each kind of display unit.
type Styles struct {
	History  lipgloss.Style
	Group    lipgloss.Style
	Word     lipgloss.Style
	WordHint lipgloss.Style
	Single   lipgloss.Style
	Badge    lipgloss.Style
}

// DefaultStyles returns the default Styles, created with the given lipgloss renderer.
func DefaultStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		History:  lr.NewStyle().Background(lipgloss.Color("#2b2b2a")),
		Group:    lr.NewStyle().MarginLeft(1),
		Word:     lr.NewStyle().Foreground(lipgloss.Color("#7af500")).Underline(true),
		WordHint: lr.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Single:   lr.NewStyle(),
		Badge: lr.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#be4bdb")).
			Padding(0, 1),
	}
}

// Renderer lays display units out in rows.
type Renderer struct {
	styles Styles
	width  int
}

// New creates a Renderer with the DefaultStyles of lr. If lr is nil the default lipgloss renderer is used.
func New(lr *lipgloss.Renderer) *Renderer {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	return &Renderer{styles: DefaultStyles(lr)}
}

// WithStyles replaces the styles.
func (r *Renderer) WithStyles(styles Styles) *Renderer {
	r.styles = styles
	return r
}

// WithWidth wraps rows at the given number of terminal cells. 0 disables wrapping.
func (r *Renderer) WithWidth(width int) *Renderer {
	r.width = width
	return r
}

// displayWord returns how a character is shown: spaces are widened to an ideographic space, so they keep
// the width of the surrounding characters.
func displayWord(word string) string {
	if word == " " {
		return width.Widen.String(word)
	}
	return word
}

// block is one rendered display unit and its width in cells.
type block struct {
	text  string
	cells int
}

func (r *Renderer) block(unit api.DisplayUnit) block {
	var text strings.Builder
	for _, tok := range unit.Members {
		text.WriteString(displayWord(tok.Word))
	}
	plain := text.String()
	switch unit.Kind {
	case api.KindHistory:
		return block{text: r.styles.History.Render(plain), cells: runewidth.StringWidth(plain)}
	case api.KindWordGroup:
		var hint string
		if unit.GroupHint != nil {
			hint = *unit.GroupHint
		}
		cells := r.styles.Group.GetMarginLeft() + max(runewidth.StringWidth(plain), runewidth.StringWidth(hint))
		rendered := lipgloss.JoinVertical(lipgloss.Left,
			r.styles.Word.Render(plain),
			r.styles.WordHint.Render(hint))
		return block{text: r.styles.Group.Render(rendered), cells: cells}
	default:
		return block{text: r.styles.Single.Render(plain), cells: runewidth.StringWidth(plain)}
	}
}

// Units renders the display units, wrapping rows at the configured width.
func (r *Renderer) Units(units iter.Seq[api.DisplayUnit]) string {
	var (
		rows     []string
		row      []string
		rowCells int
	)
	flush := func() {
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
		}
		row, rowCells = nil, 0
	}
	for unit := range units {
		b := r.block(unit)
		if r.width > 0 && rowCells > 0 && rowCells+b.cells > r.width {
			flush()
		}
		row = append(row, b.text)
		rowCells += b.cells
	}
	flush()
	return strings.Join(rows, "\n")
}

// Badge renders the current hint.
func (r *Renderer) Badge(hint string) string {
	return r.styles.Badge.Render(hint)
}
