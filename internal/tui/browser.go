package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/holocron/internal/logging"
	"github.com/rshade/holocron/internal/store"
	"github.com/rshade/holocron/internal/swapi"
)

// Column widths.
const (
	colWidthTerm      = 24
	colWidthDate      = 23
	colWidthName      = 24
	colWidthHeight    = 8
	colWidthMass      = 8
	colWidthBirthYear = 11
	colWidthHomeworld = 16

	// chromeHeight is the rows taken by borders, table headers, status and help.
	chromeHeight = 7
	minTableRows = 3
)

// Loader fetches the cached results for one search, addressed by term and a
// key prefix (see store.Entry.KeyPrefix).
type Loader func(ctx context.Context, term, prefix string) ([]swapi.Character, error)

type pane int

const (
	paneSearches pane = iota
	paneCharacters
)

// charactersLoadedMsg carries the outcome of a Loader call.
type charactersLoadedMsg struct {
	index   int
	results []swapi.Character
	err     error
}

// BrowserModel is the two-pane cache browser. The left pane lists cached
// searches; choosing one replaces every row of the right pane with the
// characters of that search.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx     context.Context
	entries []store.Entry
	load    Loader

	searches   table.Model
	characters table.Model
	focus      pane

	// selected is the entry whose characters are shown, or -1.
	selected int
	loading  bool
	status   string
	err      error

	width  int
	height int
}

// NewBrowserModel creates a browser over entries.
func NewBrowserModel(ctx context.Context, entries []store.Entry, load Loader) BrowserModel {
	m := BrowserModel{
		ctx:      ctx,
		entries:  entries,
		load:     load,
		selected: -1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	if len(entries) > 0 {
		m.selected = 0
		m.loading = true
		m.status = "Loading..."
	}
	m.searches = newSearchesTable(entries, m.tableHeight())
	m.characters = newCharactersTable(nil, m.tableHeight())
	m.characters.Blur()
	return m
}

// Init loads the first search so the right pane is not empty on start.
func (m BrowserModel) Init() tea.Cmd {
	if m.selected < 0 {
		return nil
	}
	return m.fetchCmd(m.selected)
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searches.SetHeight(m.tableHeight())
		m.characters.SetHeight(m.tableHeight())
		return m, nil

	case charactersLoadedMsg:
		return m.handleLoaded(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		return m, tea.Quit
	case keyTab:
		m.toggleFocus()
		return m, nil
	case keyEsc:
		if m.focus == paneCharacters {
			m.toggleFocus()
		}
		return m, nil
	}

	if m.focus == paneCharacters {
		var cmd tea.Cmd
		m.characters, cmd = m.characters.Update(msg)
		return m, cmd
	}

	before := m.searches.Cursor()
	var cmd tea.Cmd
	m.searches, cmd = m.searches.Update(msg)
	after := m.searches.Cursor()

	if after != before || msg.String() == keyEnter {
		m.selected = after
		m.loading = true
		m.status = "Loading..."
		if cmd == nil {
			return m, m.fetchCmd(after)
		}
		return m, tea.Batch(cmd, m.fetchCmd(after))
	}
	return m, cmd
}

// fetchCmd returns the command that loads the characters of entry index.
func (m BrowserModel) fetchCmd(index int) tea.Cmd {
	if index < 0 || index >= len(m.entries) {
		return nil
	}
	entry := m.entries[index]
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		results, err := load(ctx, entry.Term, entry.KeyPrefix())
		return charactersLoadedMsg{index: index, results: results, err: err}
	}
}

func (m BrowserModel) handleLoaded(msg charactersLoadedMsg) BrowserModel {
	// A newer selection superseded this load.
	if msg.index != m.selected {
		return m
	}
	m.loading = false

	if msg.err != nil {
		logging.FromContext(m.ctx).Warn().
			Str("component", "tui").
			Err(msg.err).
			Str("term", m.entries[msg.index].Term).
			Msg("failed to load cached search")
		m.err = msg.err
		m.status = "Could not load this search."
		m.characters.SetRows(nil)
		return m
	}

	m.err = nil
	m.characters.SetRows(characterRows(msg.results))
	m.characters.SetCursor(0)
	m.status = fmt.Sprintf("%d character(s) for %q", len(msg.results), m.entries[msg.index].Term)
	return m
}

func (m *BrowserModel) toggleFocus() {
	if m.focus == paneSearches {
		m.focus = paneCharacters
		m.searches.Blur()
		m.characters.Focus()
		return
	}
	m.focus = paneSearches
	m.characters.Blur()
	m.searches.Focus()
}

// View renders the model (Bubble Tea interface).
func (m BrowserModel) View() string {
	left, right := BoxStyle, BoxStyle
	if m.focus == paneSearches {
		left = FocusedBoxStyle
	} else {
		right = FocusedBoxStyle
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.searches.View()),
		right.Render(m.characters.View()),
	)

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Star Wars API cache viewer"))
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.status))
	} else {
		b.WriteString(InfoStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ select • enter reload • tab switch pane • q quit"))
	return b.String()
}

// SelectedEntry returns the entry whose characters are shown.
func (m BrowserModel) SelectedEntry() (store.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.entries) {
		return store.Entry{}, false
	}
	return m.entries[m.selected], true
}

// Loading reports whether a load is in flight.
func (m BrowserModel) Loading() bool {
	return m.loading
}

// CharacterRows returns the rows of the right pane.
func (m BrowserModel) CharacterRows() []table.Row {
	return m.characters.Rows()
}

func (m BrowserModel) tableHeight() int {
	h := m.height - chromeHeight
	if h < minTableRows {
		return minTableRows
	}
	return h
}

func newSearchesTable(entries []store.Entry, height int) table.Model {
	columns := []table.Column{
		{Title: "Search Term", Width: colWidthTerm},
		{Title: "Search Date", Width: colWidthDate},
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Term, e.Display()}
	}

	return styledTable(columns, rows, height, true)
}

func newCharactersTable(results []swapi.Character, height int) table.Model {
	columns := []table.Column{
		{Title: "Name", Width: colWidthName},
		{Title: "Height", Width: colWidthHeight},
		{Title: "Mass", Width: colWidthMass},
		{Title: "Birth Year", Width: colWidthBirthYear},
		{Title: "Homeworld", Width: colWidthHomeworld},
	}
	return styledTable(columns, characterRows(results), height, false)
}

func characterRows(results []swapi.Character) []table.Row {
	rows := make([]table.Row, len(results))
	for i, c := range results {
		homeworld := swapi.Unknown
		if c.Homeworld != nil && c.Homeworld.Name() != "" {
			homeworld = c.Homeworld.Name()
		}
		rows[i] = table.Row{
			c.Name(),
			c.Attr("height"),
			c.Attr("mass"),
			c.Attr("birth_year"),
			homeworld,
		}
	}
	return rows
}

func styledTable(columns []table.Column, rows []table.Row, height int, focused bool) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}
