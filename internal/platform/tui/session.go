package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// sessionScreen is the screen a session is currently showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenBoard
)

// SessionModel manages the full session flow: menu -> game or leaderboard ->
// menu. It is the top-level model for `flappy menu` and SSH sessions.
type SessionModel struct {
	opts     GameOptions
	screen   sessionScreen
	menu     MenuModel
	game     *GameModel
	board    *BoardModel
	quitting bool
}

// NewSessionModel creates a new session model starting at the menu.
func NewSessionModel(opts GameOptions) SessionModel {
	if opts.Identity == "" {
		opts.Identity = AnonymousIdentity
	}
	m := SessionModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.opts.Identity, m.opts.Client != nil, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenBoard:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		game := NewGameModel(m.opts)
		game.embedded = true
		m.game = &game
		m.screen = screenGame
		return m, m.game.Init()

	case ChoiceBoard:
		board := NewBoardModel(m.opts.Client, m.opts.Store, m.opts.Identity, m.opts.Timeout, m.opts.Logger,
			m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		board.embedded = true
		m.board = &board
		m.screen = screenBoard
		return m, m.board.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		// Pending timers of the old game carry its owner id and are dropped
		m.game = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateBoard handles updates when showing the leaderboard.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if boardModel, ok := newModel.(BoardModel); ok {
		m.board = &boardModel
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.board = nil
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenBoard:
		return m.board.View()
	}
	return m.menu.View()
}

// RunSession runs the menu-driven session in the current terminal.
func RunSession(opts GameOptions) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
