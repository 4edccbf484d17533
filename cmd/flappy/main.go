// flappy is a terminal Flappy-Bird with an optional shared leaderboard.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy menu              - Title screen: play, leaderboard, quit
//	flappy board             - Interactive leaderboard
//	flappy scores [--local]  - Print the top 10
//	flappy serve             - Run the leaderboard HTTP service
//	flappy ssh               - Serve the game over SSH
//	flappy config            - Print the default game tuning YAML
//
// Global flags:
//
//	--server <url>   - Leaderboard service (env FLAPPY_SERVER; empty = offline)
//	--wallet <id>    - Player identity (env FLAPPY_WALLET)
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Local run history (default: ~/.flappy/runs.db)
//	--config <path>  - Game tuning YAML
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/core"
	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

var (
	// Global flags
	flagServer string
	flagWallet string
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - flap through pipes in your terminal",
	Long: `Flappy is a terminal Flappy-Bird. Scores are kept on this machine and,
when a leaderboard server is configured, submitted to a shared leaderboard.

Available commands:
  play     - Play directly
  menu     - Title screen with play and leaderboard
  board    - Browse the leaderboard
  scores   - Print the top 10
  serve    - Run the leaderboard HTTP service
  ssh      - Serve the game over SSH
  config   - Print the default game tuning YAML

Examples:
  flappy play
  flappy play --server http://localhost:3001 --wallet 0x1234abcd5678ef90
  flappy scores --local
  flappy serve --port 3001
  flappy ssh --addr :2222`,
	SilenceUsage: true,
}

func init() {
	env := config.ClientFromEnv(os.Getenv)

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", env.ServerURL, "Leaderboard service base URL (empty = offline)")
	rootCmd.PersistentFlags().StringVar(&flagWallet, "wallet", env.Identity, "Player identity sent with scores")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/runs.db", "Path to local run history")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom YAML (game tuning, or service settings for serve)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(configCmd)
}

// clientConfig returns the leaderboard client settings after flags.
func clientConfig() config.ClientConfig {
	cfg := config.DefaultClientConfig()
	cfg.ServerURL = flagServer
	cfg.Identity = flagWallet
	return cfg
}

// newClient returns a leaderboard client, or nil when playing offline.
func newClient(cfg config.ClientConfig) *leaderboard.Client {
	if !cfg.Online() {
		return nil
	}
	return leaderboard.NewClient(cfg.ServerURL, cfg.Timeout)
}

// openStore opens local history. The game works without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// fileLogger logs to ~/.flappy/flappy.log so the alt screen stays clean.
// The returned func closes the file.
func fileLogger() (*log.Logger, func()) {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
	})
	return logger, func() { f.Close() }
}

// gameOptions assembles everything a game or session model needs.
func gameOptions(logger *log.Logger, store *storage.Store) (tui.GameOptions, error) {
	game, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return tui.GameOptions{}, err
	}

	width, height := terminalSize()
	client := clientConfig()

	return tui.GameOptions{
		Game: game,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Store:    store,
		Client:   newClient(client),
		Identity: client.Identity,
		Timeout:  client.Timeout,
		Logger:   logger,
	}, nil
}
