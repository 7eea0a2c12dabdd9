// Package trainer is the interactive typing screen: the text to type, grouped into words, above a text
// area whose content advances the typed cursor on every keystroke.
package trainer

import (
	"context"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/bbtyping/go-typingtips/render"
	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/bbtyping/go-typingtips/tips/hint"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Fetcher returns the tip stream of a text, e.g. a *hub.Client.
type Fetcher interface {
	Fetch(ctx context.Context, text string) ([]api.Token, error)
}

// TextStore keeps the last-used text, e.g. a *store.Store.
type TextStore interface {
	Read() (string, error)
	Write(ctx context.Context, text string) error
}

// Clipboard reads the text to load with ctrl+e.
type Clipboard interface {
	ReadAll() (string, error)
}

// SystemClipboard reads the system clipboard.
type SystemClipboard struct{}

// ReadAll returns the text content of the system clipboard.
func (SystemClipboard) ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", errors.Wrapf(err, "failed to read clipboard")
	}
	return text, nil
}

// Key bindings.
const (
	KeyLoadClipboard = "ctrl+e"
	KeyClear         = "f3"
)

// Config of a Model.
type Config struct {
	Fetcher   Fetcher
	Store     TextStore
	Clipboard Clipboard
	Renderer  *render.Renderer
	ShowHint  bool
	// Width wraps the text at this many cells. 0 uses the terminal width.
	Width int
}

// loadedMsg carries the tip stream of newly loaded text.
type loadedMsg struct {
	text   string
	tokens []api.Token
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
)

// Model is the bubbletea model of the typing screen.
type Model struct {
	ctx      context.Context
	cfg      Config
	input    textarea.Model
	resolver *hint.Resolver
	text     string
	loading  bool
	err      error
}

var _ tea.Model = Model{}

// New creates the typing screen. The last-used text of cfg.Store is loaded by Init.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Clipboard == nil {
		cfg.Clipboard = SystemClipboard{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(nil)
	}
	cfg.Renderer.WithWidth(cfg.Width)

	ta := textarea.New()
	ta.Placeholder = "..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Blur()

	return Model{ctx: ctx, cfg: cfg, input: ta, loading: true}
}

// Init loads the last-used text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadStored())
}

func (m Model) loadStored() tea.Cmd {
	return func() tea.Msg {
		text, err := m.cfg.Store.Read()
		if err != nil {
			return loadedMsg{err: err}
		}
		return m.fetch(text)
	}
}

func (m Model) loadClipboard() tea.Cmd {
	return func() tea.Msg {
		text, err := m.cfg.Clipboard.ReadAll()
		if err != nil {
			return loadedMsg{err: err}
		}
		if strings.TrimSpace(text) == "" {
			return loadedMsg{err: errors.New("the clipboard holds no text")}
		}
		if err := m.cfg.Store.Write(m.ctx, text); err != nil {
			klog.Warningf("failed to save last-used text: %+v", err)
		}
		return m.fetch(text)
	}
}

func (m Model) fetch(text string) loadedMsg {
	tokens, err := m.cfg.Fetcher.Fetch(m.ctx, text)
	if err != nil {
		return loadedMsg{text: text, err: err}
	}
	return loadedMsg{text: text, tokens: tokens}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.SetWidth(max(msg.Width-2, 1))
		if m.cfg.Width == 0 {
			m.cfg.Renderer.WithWidth(msg.Width)
		}
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		resolver, err := hint.NewResolver(msg.tokens)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.resolver, m.text, m.err = resolver, msg.text, nil
		cmd := m.input.Focus()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case KeyLoadClipboard:
			if m.loading {
				return m, nil
			}
			m.input.Reset()
			m.loading = true
			return m, m.loadClipboard()
		case KeyClear:
			m.input.Reset()
			return m, nil
		}
		if m.resolver == nil {
			// Nothing to type yet.
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Typed returns the number of characters typed so far.
func (m Model) Typed() int {
	return len([]rune(m.input.Value()))
}

// Text returns the loaded text, "" before anything is loaded.
func (m Model) Text() string {
	return m.text
}

// View renders the hint badge, the text with its word groups and the input.
func (m Model) View() string {
	header := titleStyle.Render("typing-tips")
	var body string
	if m.resolver != nil {
		if m.cfg.ShowHint {
			if code, found, err := m.resolver.Current(m.Typed()); err == nil && found {
				header += "  " + m.cfg.Renderer.Badge(code)
			}
		}
		units, err := m.resolver.Segment(m.Typed())
		if err != nil {
			body = errorStyle.Render(err.Error())
		} else {
			body = m.cfg.Renderer.Units(slices.Values(units))
		}
	}

	var status string
	switch {
	case m.loading:
		status = statusStyle.Render("loading...")
	case m.err != nil:
		status = errorStyle.Render(m.err.Error())
	default:
		status = statusStyle.Render(KeyLoadClipboard + ": load text from clipboard  " + KeyClear + ": clear input  esc: quit")
	}
	return strings.Join([]string{header, "", body, "", m.input.View(), status}, "\n")
}
