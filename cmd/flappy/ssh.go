package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the game over SSH",
	Long: `Start an SSH server that lets users connect and play.

Each connection gets its own session with the title menu. The SSH user name is
the player identity. Runs are recorded in the server's local history and, with
--server, submitted to the leaderboard service.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

Examples:
  flappy ssh                              # Listen on :23234
  flappy ssh --addr :2222                 # Listen on port 2222
  flappy ssh --server http://localhost:3001

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "addr", ":23234", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runSSH(_ *cobra.Command, _ []string) error {
	game, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Game = game
	cfg.TickRate = flagFPS
	cfg.Client = clientConfig()

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting flappy SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
