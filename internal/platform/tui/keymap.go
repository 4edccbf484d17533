package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-arcade/internal/core"
)

// KeyMapper translates Bubble Tea input messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case " ", "up", "w", "k":
		return core.ActionFlap
	case "p", "esc":
		return core.ActionPause
	case "r":
		return core.ActionRestart
	case "b":
		return core.ActionBack
	}
	return core.ActionNone
}

// MapMouse treats a left-button press as a flap.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) core.Action {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return core.ActionFlap
	}
	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
