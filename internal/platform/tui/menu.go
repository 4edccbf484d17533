package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-arcade/internal/core"
)

// MenuChoice is an entry of the title menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceBoard
	ChoiceQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	identity  string
	online    bool
	keyMapper *KeyMapper
	quitting  bool
	selected  MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(identity string, online bool, width, height int) MenuModel {
	return MenuModel{
		items: []MenuItem{
			{Choice: ChoicePlay, Title: "Play"},
			{Choice: ChoiceBoard, Title: "Leaderboard"},
			{Choice: ChoiceQuit, Title: "Quit"},
		},
		width:     width,
		height:    height,
		identity:  identity,
		online:    online,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.items)-1)

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.items)-1)

	case MenuActionSelect:
		m.selected = m.items[m.cursor].Choice
		if m.selected == ChoiceQuit {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Vertically center the block
	if pad := (m.height - len(m.items) - 10) / 2; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}

	b.WriteString(centerStyled(titleStyle.Render("  F L A P P Y  "), m.width))
	b.WriteString("\n\n")

	who := fmt.Sprintf("Playing as %s", m.identity)
	if !m.online {
		who += " (offline)"
	}
	b.WriteString(centerStyled(dimStyle.Render(who), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerStyled(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// centerStyled centers text that may contain ANSI escapes.
func centerStyled(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
