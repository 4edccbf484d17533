package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the title screen",
	Long: `Start flappy in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
B returns to the menu from a finished or paused game and from the leaderboard.

Examples:
  flappy menu
  flappy menu --fps 30
  flappy menu --db ./runs.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts, err := gameOptions(logger, store)
	if err != nil {
		return err
	}
	return tui.RunSession(opts)
}
