package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-arcade/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default game tuning YAML",
	Long: `Print the built-in game tuning as YAML. Save it, edit it and pass it back
with --config.

Examples:
  flappy config > flappy.yaml
  flappy play --config flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeDefaultConfig(cmd.OutOrStdout())
	},
}

func writeDefaultConfig(out io.Writer) error {
	if _, err := out.Write(config.GetDefaultYAML()); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
