package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/flappy-arcade/internal/core"
)

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(2, 0, "cd", core.ColorGreen)
	s.SetColored(5, 1, '#', core.ColorRed)

	got := ansi.Strip(RenderScreen(s))
	want := "abcd  \n     #"
	if got != want {
		t.Errorf("RenderScreen() text = %q, want %q", got, want)
	}
}

func TestRenderScreenEmpty(t *testing.T) {
	if got := RenderScreen(core.NewScreen(0, 0)); got != "" {
		t.Errorf("empty screen rendered %q", got)
	}
}
