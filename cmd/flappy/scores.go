package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/platform/tui"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

var (
	flagLocal bool
	flagClear bool
)

// recentRunsShown is how many of the player's own runs --local lists.
const recentRunsShown = 5

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the top 10",
	Long: `Print the top 10 scores.

Without --local the shared leaderboard is queried (requires --server).

Examples:
  flappy scores --server http://localhost:3001
  flappy scores --local
  flappy scores --local --wallet 0x1234abcd5678ef90
  flappy scores --local --clear --wallet 0x1234abcd5678ef90`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagLocal, "local", false, "Show runs recorded on this machine")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete this machine's runs for --wallet (requires --local)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if flagClear && !flagLocal {
		return errors.New("--clear only applies to local history; add --local")
	}
	if flagLocal {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		defer store.Close()
		if flagClear {
			return clearLocal(out, store, flagWallet)
		}
		return printLocal(out, store, flagWallet)
	}

	cfg := clientConfig()
	client := newClient(cfg)
	if client == nil {
		return errors.New("no leaderboard server configured; pass --server, set FLAPPY_SERVER or use --local")
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()
	return printGlobal(ctx, out, client)
}

func printGlobal(ctx context.Context, out io.Writer, client *leaderboard.Client) error {
	st, err := client.FetchLeaderboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", client.BaseURL())
	if len(st.Entries) == 0 {
		fmt.Fprintln(out, "No scores submitted yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-14s  %s\n", "Rank", "Player", "Score")
	fmt.Fprintf(out, "  %-4s  %-14s  %s\n", "----", "------", "-----")
	for i, e := range st.Entries {
		fmt.Fprintf(out, "  %-4d  %-14s  %d\n", i+1, e.Identity, e.Score)
	}
	fmt.Fprintf(out, "\nGlobal high score: %d\n", st.GlobalHighScore)
	return nil
}

// printLocal prints the machine's top runs. When identity is set it also
// prints that player's stats and latest runs.
func printLocal(out io.Writer, store *storage.Store, identity string) error {
	runs, err := store.TopRuns(leaderboard.DefaultTopN)
	if err != nil {
		return err
	}

	fmt.Fprint(out, "High Scores - this machine\n\n")
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'flappy play' to set the first high score!")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-14s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-14s  %-6s  %s\n", "----", "------", "-----", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-14s  %-6d  %s\n", i+1, r.Identity, r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if best, err := store.HighScore(); err == nil {
		fmt.Fprintf(out, "\nBest: %d\n", best)
	} else {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if identity == "" {
		return nil
	}
	return printIdentity(out, store, identity)
}

func printIdentity(out io.Writer, store *storage.Store, identity string) error {
	stats, err := store.IdentityStats(identity)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", identity)
	if stats.Runs == 0 {
		fmt.Fprintln(out, "  No runs recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "  Runs: %d  Best: %d  Average: %.1f  Last played: %s\n",
		stats.Runs, stats.Best, stats.AvgScore, stats.LastPlayed.Local().Format("2006-01-02 15:04"))

	recent, err := store.RecentRuns(identity, recentRunsShown)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "  Recent:")
	for _, r := range recent {
		fmt.Fprintf(out, "    %-6d  %s\n", r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// clearLocal deletes identity's runs; an empty identity means the
// anonymous runs.
func clearLocal(out io.Writer, store *storage.Store, identity string) error {
	if identity == "" {
		identity = tui.AnonymousIdentity
	}
	if err := store.ClearRuns(identity); err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleared local runs for %s.\n", identity)
	return nil
}
