package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
)

type loadCall struct {
	term   string
	prefix string
}

// fakeLoader records calls and serves results keyed by term.
type fakeLoader struct {
	calls   []loadCall
	results map[string][]swapi.Character
	err     error
}

func (f *fakeLoader) load(_ context.Context, term, prefix string) ([]swapi.Character, error) {
	f.calls = append(f.calls, loadCall{term: term, prefix: prefix})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[term], nil
}

func testEntries() []store.Entry {
	base := time.Date(2024, 5, 4, 13, 37, 0, 0, time.Local)
	return []store.Entry{
		{ID: "a", Term: "Luke", CachedAt: base.Add(123456 * time.Microsecond)},
		{ID: "b", Term: "Leia", CachedAt: base.Add(2 * time.Second)},
	}
}

func testLoader() *fakeLoader {
	return &fakeLoader{results: map[string][]swapi.Character{
		"Luke": {lukeCharacter()},
		"Leia": {
			{Attributes: map[string]string{"name": "Leia Organa", "height": "150"}},
			{Attributes: map[string]string{"name": "Leia's Double"}},
		},
	}}
}

// run executes cmd and feeds its message back into m.
func run(t *testing.T, m BrowserModel, cmd tea.Cmd) BrowserModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	bm, ok := next.(BrowserModel)
	require.True(t, ok)
	return bm
}

func press(t *testing.T, m BrowserModel, key tea.KeyMsg) (BrowserModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	bm, ok := next.(BrowserModel)
	require.True(t, ok)
	return bm, cmd
}

func TestBrowserModel_InitLoadsFirstEntry(t *testing.T) {
	entries := testEntries()
	fl := testLoader()
	m := NewBrowserModel(context.Background(), entries, fl.load)

	m = run(t, m, m.Init())

	require.Len(t, fl.calls, 1)
	assert.Equal(t, "Luke", fl.calls[0].term)
	assert.Equal(t, entries[0].KeyPrefix(), fl.calls[0].prefix)
	assert.False(t, m.Loading())

	rows := m.CharacterRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Luke Skywalker", rows[0][0])
	assert.Equal(t, "Tatooine", rows[0][4])

	selected, ok := m.SelectedEntry()
	require.True(t, ok)
	assert.Equal(t, "a", selected.ID)
}

func TestBrowserModel_SelectionReplacesRows(t *testing.T) {
	fl := testLoader()
	m := NewBrowserModel(context.Background(), testEntries(), fl.load)
	m = run(t, m, m.Init())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = run(t, m, cmd)

	rows := m.CharacterRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Leia Organa", rows[0][0])
	assert.Equal(t, swapi.Unknown, rows[0][4])
	assert.Equal(t, "Leia's Double", rows[1][0])

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = run(t, m, cmd)
	require.Len(t, m.CharacterRows(), 1, "rows are replaced, not appended")
	assert.Equal(t, "Luke Skywalker", m.CharacterRows()[0][0])
}

func TestBrowserModel_EnterReloads(t *testing.T) {
	fl := testLoader()
	m := NewBrowserModel(context.Background(), testEntries(), fl.load)
	m = run(t, m, m.Init())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_ = run(t, m, cmd)
	assert.Len(t, fl.calls, 2)
}

func TestBrowserModel_StaleLoadIgnored(t *testing.T) {
	fl := testLoader()
	m := NewBrowserModel(context.Background(), testEntries(), fl.load)
	initCmd := m.Init()

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = run(t, m, cmd)
	m = run(t, m, initCmd)

	rows := m.CharacterRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Leia Organa", rows[0][0])
}

func TestBrowserModel_LoadError(t *testing.T) {
	fl := &fakeLoader{err: errors.New("disk on fire")}
	m := NewBrowserModel(context.Background(), testEntries(), fl.load)

	m = run(t, m, m.Init())

	assert.Empty(t, m.CharacterRows())
	assert.Contains(t, m.View(), "Could not load this search.")
}

func TestBrowserModel_TabMovesFocus(t *testing.T) {
	fl := testLoader()
	m := NewBrowserModel(context.Background(), testEntries(), fl.load)
	m = run(t, m, m.Init())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	assert.Equal(t, paneCharacters, m.focus)

	// Cursor keys now move within the characters pane and load nothing.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Len(t, fl.calls, 1)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, paneSearches, m.focus)
}

func TestBrowserModel_Quit(t *testing.T) {
	m := NewBrowserModel(context.Background(), testEntries(), testLoader().load)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := press(t, m, key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestBrowserModel_View(t *testing.T) {
	m := NewBrowserModel(context.Background(), testEntries(), testLoader().load)
	m = run(t, m, m.Init())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	view := next.View()

	assert.Contains(t, view, "Search Term")
	assert.Contains(t, view, "Search Date")
	assert.Contains(t, view, "2024-05-04 13:37:00.123")
	assert.Contains(t, view, "Luke Skywalker")
	assert.Contains(t, view, "q quit")
}

func TestBrowserModel_Empty(t *testing.T) {
	m := NewBrowserModel(context.Background(), nil, testLoader().load)
	assert.Nil(t, m.Init())

	_, ok := m.SelectedEntry()
	assert.False(t, ok)
}
