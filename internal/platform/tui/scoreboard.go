package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

// Board layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the source sidebar
	sidebarWidth       = 20  // Width of the source sidebar
	maxLocalRuns       = 100 // Max local runs to load
	recentRunsShown    = 5   // Player's latest runs under the local table
	playerPanelHeight  = 2   // Lines used by the player summary
)

// boardSource is a tab of the leaderboard screen.
type boardSource int

const (
	sourceGlobal boardSource = iota
	sourceLocal
)

func (s boardSource) String() string {
	if s == sourceGlobal {
		return "Global"
	}
	return "This machine"
}

// BoardKeyMap defines the key bindings for the leaderboard screen.
type BoardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Switch  key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch, k.Refresh},
		{k.Back, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "global/local"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BoardModel is the Bubble Tea model for the leaderboard screen. It shows the
// service's top ten and the runs recorded on this machine.
type BoardModel struct {
	client   *leaderboard.Client
	store    *storage.Store
	identity string
	timeout  time.Duration
	logger   *log.Logger

	source    boardSource
	standings *leaderboard.Standings
	loading   bool
	fetchErr  error
	localRuns []storage.Run
	stats     *storage.Stats
	recent    []storage.Run

	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	embedded    bool
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewBoardModel creates a leaderboard model. Either client or store may be nil.
// The local tab summarizes identity's own runs; empty means anonymous.
func NewBoardModel(client *leaderboard.Client, store *storage.Store, identity string, timeout time.Duration, logger *log.Logger, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false
	if identity == "" {
		identity = AnonymousIdentity
	}

	m := BoardModel{
		client:      client,
		store:       store,
		identity:    identity,
		timeout:     timeout,
		logger:      logger,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	if client == nil {
		m.source = sourceLocal
	}

	m.table = m.createTable()
	m.loadLocal()
	m.updateTableRows()
	return m
}

// Init starts loading the global leaderboard.
func (m BoardModel) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return fetchStandings(m.client, m.timeout)
}

// createTable creates a new table with columns for the current source.
func (m *BoardModel) createTable() table.Model {
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 14},
		{Title: "Score", Width: 8},
	}
	if m.source == sourceLocal {
		columns = append(columns, table.Column{Title: "Date", Width: 14})
	}
	if extra := tableWidth - 48; extra > 0 {
		columns[1].Width += min(extra, 16)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if m.source == sourceLocal {
		height -= playerPanelHeight
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadLocal reads the best local runs and the player's own summary.
func (m *BoardModel) loadLocal() {
	m.localRuns, m.stats, m.recent = nil, nil, nil
	if m.store == nil {
		return
	}
	runs, err := m.store.TopRuns(maxLocalRuns)
	if err != nil {
		m.warn("Could not load local runs", err)
		return
	}
	m.localRuns = runs

	stats, err := m.store.IdentityStats(m.identity)
	if err != nil {
		m.warn("Could not load player stats", err)
		return
	}
	if stats.Runs == 0 {
		return
	}
	m.stats = stats
	if m.recent, err = m.store.RecentRuns(m.identity, recentRunsShown); err != nil {
		m.warn("Could not load recent runs", err)
	}
}

func (m *BoardModel) warn(msg string, err error) {
	if m.logger != nil {
		m.logger.Warn(msg, "identity", m.identity, "error", err)
	}
}

// updateTableRows fills the table from the current source.
func (m *BoardModel) updateTableRows() {
	var rows []table.Row
	switch m.source {
	case sourceGlobal:
		if m.standings != nil {
			for i, e := range m.standings.Entries {
				rows = append(rows, table.Row{fmt.Sprintf("#%d", i+1), e.Identity, strconv.Itoa(e.Score)})
			}
		}
	case sourceLocal:
		for i, r := range m.localRuns {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				r.Identity,
				strconv.Itoa(r.Score),
				r.CreatedAt.Local().Format("Jan 02 15:04"),
			})
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Update handles messages for the leaderboard.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			if m.client != nil {
				m.source = 1 - m.source
				m.table = m.createTable()
				m.updateTableRows()
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.loadLocal()
			m.updateTableRows()
			if m.client != nil {
				m.loading = true
				return m, fetchStandings(m.client, m.timeout)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case standingsMsg:
		m.loading = false
		m.fetchErr = msg.err
		if msg.err != nil {
			if m.logger != nil {
				m.logger.Warn("Could not fetch leaderboard", "error", msg.err)
			}
		} else {
			st := msg.standings
			m.standings = &st
		}
		m.updateTableRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m BoardModel) View() string {
	if m.quitting || (m.goingBack && !m.embedded) {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HIGH SCORES - %s", m.source)
	if m.source == sourceGlobal && m.standings != nil {
		title = fmt.Sprintf("%s (best ever: %d)", title, m.standings.GlobalHighScore)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m BoardModel) sources() []boardSource {
	if m.client == nil {
		return []boardSource{sourceLocal}
	}
	return []boardSource{sourceGlobal, sourceLocal}
}

// renderWideLayout renders the table with a source sidebar.
func (m BoardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scores\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for _, src := range m.sources() {
		cursor := "  "
		style := lipgloss.NewStyle()
		if src == m.source {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + src.String()))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders source tabs above the table.
func (m BoardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	var tabs []string
	for _, src := range m.sources() {
		if src == m.source {
			tabs = append(tabs, activeTabStyle.Render(src.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(" "+src.String()+" "))
		}
	}
	b.WriteString(centerStyled(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerStyled(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or a placeholder message.
func (m BoardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.source == sourceGlobal {
		switch {
		case m.standings == nil && m.fetchErr != nil:
			return emptyStyle.Render("Leaderboard unavailable.\nPress r to retry.")
		case m.standings == nil || m.loading && len(m.standings.Entries) == 0:
			return emptyStyle.Render("Loading...")
		case len(m.standings.Entries) == 0:
			return emptyStyle.Render("No scores submitted yet.\nBe the first!")
		}
		return m.table.View()
	}

	if len(m.localRuns) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nPlay a game to set a high score!")
	}
	if panel := m.renderPlayerPanel(); panel != "" {
		return m.table.View() + "\n" + panel
	}
	return m.table.View()
}

// renderPlayerPanel summarizes the player's runs on this machine.
func (m BoardModel) renderPlayerPanel() string {
	if m.stats == nil {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summary := fmt.Sprintf("%s: %d runs, best %d, avg %.1f, last %s",
		m.identity, m.stats.Runs, m.stats.Best, m.stats.AvgScore,
		m.stats.LastPlayed.Local().Format("Jan 02 15:04"))

	scores := make([]string, len(m.recent))
	for i, r := range m.recent {
		scores[i] = strconv.Itoa(r.Score)
	}
	return style.Render(summary + "\nRecent: " + strings.Join(scores, " "))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// RunBoard runs the leaderboard screen on its own.
func RunBoard(client *leaderboard.Client, store *storage.Store, identity string, timeout time.Duration, logger *log.Logger, width, height int) error {
	p := tea.NewProgram(
		NewBoardModel(client, store, identity, timeout, logger, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
