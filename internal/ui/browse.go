package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/favorites"
	"github.com/Aman-CERP/storefront/internal/health"
	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/theme"
)

// BrowseDeps are the collaborators of the browse screen.
type BrowseDeps struct {
	Catalog    *catalog.Index
	Engine     *search.Engine
	Favorites  *favorites.Store
	Theme      *theme.Store
	Debounce   time.Duration
	MaxResults int
	NoColor    bool
}

type browseKeys struct {
	Up       key.Binding
	Down     key.Binding
	Favorite key.Binding
	Theme    key.Binding
	Detail   key.Binding
	Search   key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Favorite: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "favorite")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Detail:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "details")),
		Search:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Favorite, k.Theme, k.Detail, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Search}}
}

// Message types for bubbletea
type resultsMsg struct {
	query string
	items []catalog.Item
}
type snapshotMsg health.Snapshot

// BrowseModel is the interactive catalog browser: a search box whose
// input is debounced, a result list, and a storage status footer.
type BrowseModel struct {
	deps   BrowseDeps
	keys   browseKeys
	input  textinput.Model
	spin   spinner.Model
	help   help.Model
	live   *search.LiveQuery
	items  *ItemRenderer
	status *StatusRenderer
	styles Styles

	results   chan resultsMsg
	snapshots chan health.Snapshot
	done      chan struct{}
	closeOnce sync.Once

	query    string
	shown    []catalog.Item
	cursor   int
	detail   bool
	snap     health.Snapshot
	width    int
	quitting bool
}

// NewBrowseModel creates the browse screen. Until something is typed the
// whole catalog is listed.
func NewBrowseModel(deps BrowseDeps) *BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "search phones..."
	ti.Prompt = "› "
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	m := &BrowseModel{
		deps:      deps,
		keys:      defaultBrowseKeys(),
		input:     ti,
		spin:      s,
		help:      help.New(),
		items:     NewItemRenderer(deps.NoColor),
		status:    NewStatusRenderer(io.Discard, deps.NoColor),
		styles:    GetStyles(deps.NoColor),
		results:   make(chan resultsMsg, 1),
		snapshots: make(chan health.Snapshot, 1),
		done:      make(chan struct{}),
		shown:     deps.Catalog.All(),
		width:     80,
	}
	m.live = search.NewLiveQuery(deps.Engine, deps.Catalog, deps.Debounce, func(q string, items []catalog.Item) {
		offer(m.results, resultsMsg{query: q, items: items})
	})
	return m
}

// OnSnapshot forwards a storage observation to the screen. It never
// blocks; an undelivered older snapshot is replaced.
func (m *BrowseModel) OnSnapshot(s health.Snapshot) {
	offer(m.snapshots, s)
}

// Close stops pending searches and releases waiting commands.
func (m *BrowseModel) Close() {
	m.closeOnce.Do(func() {
		m.live.Stop()
		close(m.done)
	})
}

// offer sends v on ch, discarding whatever is already buffered.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (m *BrowseModel) waitForResults() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.results:
			return r
		case <-m.done:
			return nil
		}
	}
}

func (m *BrowseModel) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.snapshots:
			return snapshotMsg(s)
		case <-m.done:
			return nil
		}
	}
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		m.waitForResults(),
		m.waitForSnapshot(),
	)
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width-10)
		return m, nil

	case resultsMsg:
		m.applyResults(msg)
		return m, m.waitForResults()

	case snapshotMsg:
		m.snap = health.Snapshot(msg)
		return m, m.waitForSnapshot()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if it, ok := m.Selected(); ok {
			m.deps.Favorites.Toggle(it.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.deps.Theme.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.Detail):
		m.detail = !m.detail
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.live.Flush()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.live.Type(after)
	}
	return m, cmd
}

func (m *BrowseModel) applyResults(r resultsMsg) {
	m.query = r.query
	if strings.TrimSpace(r.query) == "" {
		m.shown = m.deps.Catalog.All()
	} else {
		m.shown = search.Limit(r.items, m.deps.MaxResults)
	}
	if m.cursor >= len(m.shown) {
		m.cursor = max(0, len(m.shown)-1)
	}
}

// Selected returns the item under the cursor.
func (m *BrowseModel) Selected() (catalog.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.shown) {
		return catalog.Item{}, false
	}
	return m.shown[m.cursor], true
}

// Shown returns the listed items.
func (m *BrowseModel) Shown() []catalog.Item {
	return append([]catalog.Item(nil), m.shown...)
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Abou3yta phones"))
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  theme: %s", m.deps.Theme.Get())))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.live.Pending() {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteString("\n\n")

	if len(m.shown) == 0 {
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  no phones match %q", m.query)))
		b.WriteByte('\n')
	}
	for i, it := range m.shown {
		row := m.items.Row(it, m.query, m.deps.Favorites.IsFavorite(it.ID))
		if i == m.cursor {
			row = m.styles.Selected.Render("▸") + row
		} else {
			row = " " + row
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}

	if m.detail {
		if it, ok := m.Selected(); ok {
			b.WriteByte('\n')
			b.WriteString(m.styles.Panel.Render(strings.TrimRight(m.items.Detail(it, m.deps.Favorites.IsFavorite(it.ID)), "\n")))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	if m.snap.CheckedAt.IsZero() {
		b.WriteString(m.styles.Dim.Render("checking storage..."))
	} else {
		b.WriteString(m.status.Line(m.snap))
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
