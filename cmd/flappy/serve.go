package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/server"
)

var (
	flagPort       int
	flagWebhookURL string
	flagScoresFile string
	flagDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the leaderboard HTTP service",
	Long: `Run the leaderboard service.

Endpoints:
  POST /api/scores       {"wallet": "...", "score": n}
  GET  /api/leaderboard  top 10, identities masked
  GET  /api/events       websocket feed of new global high scores
  GET  /health

Settings come from defaults, then the YAML file given by --config, then the
environment (PORT, WEBHOOK_URL, SCORES_FILE), then flags.

Examples:
  flappy serve
  flappy serve --port 8080 --scores-file /var/lib/flappy/scores.json
  WEBHOOK_URL=https://example.com/hook flappy serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&flagWebhookURL, "webhook-url", "", "Notify this URL on a new global high score (overrides WEBHOOK_URL)")
	serveCmd.Flags().StringVar(&flagScoresFile, "scores-file", "", "Scores JSON file (overrides SCORES_FILE)")
	serveCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log every request")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadService(flagConfig, os.Getenv)
	if err != nil {
		return err
	}
	if flagPort > 0 {
		cfg.Port = flagPort
	}
	if flagWebhookURL != "" {
		cfg.WebhookURL = flagWebhookURL
	}
	if flagScoresFile != "" {
		cfg.ScoresFile = flagScoresFile
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy-api",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	board, err := leaderboard.Open(cfg.ScoresFile, logger)
	if err != nil {
		return fmt.Errorf("loading scores: %w", err)
	}
	logger.Info("scores loaded", "file", cfg.ScoresFile, "identities", board.Len(), "globalHighScore", board.GlobalHighScore())
	if top := board.Top(1); len(top) > 0 {
		logger.Info("current leader", "wallet", leaderboard.Mask(top[0].Identity), "score", top[0].Score)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, board, logger).Run(ctx)
}
