package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse the leaderboard",
	Long: `Show the leaderboard interactively.

The Global tab lists the service's top 10 (requires --server); the second tab
lists the best runs recorded on this machine. Tab switches, r refreshes.

Examples:
  flappy board --server http://localhost:3001
  flappy board`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func runBoard(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := clientConfig()
	width, height := terminalSize()
	return tui.RunBoard(newClient(cfg), store, cfg.Identity, cfg.Timeout, logger, width, height)
}
