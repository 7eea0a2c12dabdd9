package trainer

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/bbtyping/go-typingtips/internal/tipstest"
	"github.com/bbtyping/go-typingtips/render"
	"github.com/bbtyping/go-typingtips/tips/api"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher returns one standalone character per rune, each with code "c" followed by the character.
type fakeFetcher struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, text string) ([]api.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	b := tipstest.New()
	for _, r := range text {
		b.Single(string(r), "c"+string(r))
	}
	return b.Tokens(), nil
}

type memStore struct {
	mu   sync.Mutex
	text string
}

func (s *memStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, nil
}

func (s *memStore) Write(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	return nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

type testEnv struct {
	fetcher   *fakeFetcher
	store     *memStore
	clipboard *fakeClipboard
}

func newTestModel() (Model, *testEnv) {
	env := &testEnv{
		fetcher:   &fakeFetcher{},
		store:     &memStore{text: "忽如"},
		clipboard: &fakeClipboard{text: "春风"},
	}
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	m := New(context.Background(), Config{
		Fetcher:   env.fetcher,
		Store:     env.store,
		Clipboard: env.clipboard,
		Renderer:  render.New(lr),
		ShowHint:  true,
	})
	return m, env
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// loaded returns m after the last-used text has been loaded.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(m, m.loadStored()())
	require.NoError(t, m.err)
	return m
}

func typeText(m Model, text string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestModel_LoadsStoredText(t *testing.T) {
	m, env := newTestModel()
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "loading...")

	m = loaded(t, m)
	assert.False(t, m.loading)
	assert.Equal(t, "忽如", m.Text())
	assert.Equal(t, []string{"忽如"}, env.fetcher.texts)
	assert.Contains(t, m.View(), "c忽")
	assert.NotContains(t, m.View(), "loading...")
}

func TestModel_TypingAdvancesHint(t *testing.T) {
	m, _ := newTestModel()
	m = loaded(t, m)

	m = typeText(m, "忽")
	assert.Equal(t, 1, m.Typed())
	view := m.View()
	assert.Contains(t, view, "c如")
	assert.NotContains(t, view, "c忽")

	// Everything typed: no hint left.
	m = typeText(m, "如")
	assert.Equal(t, 2, m.Typed())
	assert.NotContains(t, m.View(), "c如")

	// Typing past the end is clamped.
	m = typeText(m, "x")
	assert.Equal(t, 3, m.Typed())
	_, found, err := m.resolver.Current(m.Typed())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Contains(t, m.View(), "忽如")
}

func TestModel_KeysIgnoredBeforeLoading(t *testing.T) {
	m, _ := newTestModel()
	m = typeText(m, "忽")
	assert.Equal(t, 0, m.Typed())
}

func TestModel_ClearInput(t *testing.T) {
	m, _ := newTestModel()
	m = loaded(t, m)
	m = typeText(m, "忽")
	require.Equal(t, 1, m.Typed())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyF3})
	assert.Equal(t, 0, m.Typed())
	assert.Contains(t, m.View(), "c忽")
}

func TestModel_LoadClipboard(t *testing.T) {
	m, env := newTestModel()
	m = loaded(t, m)
	m = typeText(m, "忽")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, 0, m.Typed())

	// A second ctrl+e while loading is ignored.
	_, again := update(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, again)

	m, _ = update(m, cmd())
	assert.False(t, m.loading)
	require.NoError(t, m.err)
	assert.Equal(t, "春风", m.Text())
	assert.Equal(t, "春风", env.store.text)
	assert.Equal(t, []string{"忽如", "春风"}, env.fetcher.texts)
	assert.Contains(t, m.View(), "c春")
}

func TestModel_LoadClipboardErrors(t *testing.T) {
	for _, clip := range []*fakeClipboard{
		{text: "  "},
		{err: errors.New("no clipboard utility")},
	} {
		m, env := newTestModel()
		m = loaded(t, m)
		env.clipboard.text, env.clipboard.err = clip.text, clip.err

		m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlE})
		m, _ = update(m, cmd())
		assert.Error(t, m.err)
		assert.Contains(t, m.View(), m.err.Error())
		// The previous text stays, and the saved text is unchanged.
		assert.Equal(t, "忽如", m.Text())
		assert.Equal(t, "忽如", env.store.text)
		assert.Contains(t, m.View(), "c忽")
	}
}

func TestModel_FetchError(t *testing.T) {
	m, env := newTestModel()
	env.fetcher.err = errors.New("service unavailable")
	m, _ = update(m, m.loadStored()())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "service unavailable")
	assert.Empty(t, m.Text())

	// It can be retried from the clipboard.
	env.fetcher.err = nil
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m, _ = update(m, cmd())
	require.NoError(t, m.err)
	assert.Equal(t, "春风", m.Text())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel()
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := update(m, tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_Program(t *testing.T) {
	m, _ := newTestModel()
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("c忽"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("忽")
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("c如"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Equal(t, 1, final.Typed())
	assert.Equal(t, "忽如", final.Text())
}
