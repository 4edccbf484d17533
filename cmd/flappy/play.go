package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game of flappy.

Controls:
  Space/Up/W/Click  - Flap (the first flap starts the run)
  P/Esc             - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a screenshot to ~/.flappy/screenshots
  Q/Ctrl+C          - Quit

When --server and --wallet are set, finished runs with a positive score are
submitted to the leaderboard.

Examples:
  flappy play
  flappy play --seed 42
  flappy play --config ./my-flappy.yaml
  FLAPPY_SERVER=http://localhost:3001 FLAPPY_WALLET=0xabc flappy play`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
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
	logger.Info("starting game", "identity", opts.Identity, "online", opts.Client != nil)
	return tui.Run(opts)
}
