// Package cli wires the novacat commands. Each command builds the service
// it needs from the loaded configuration and tears it down before exiting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/novacat/internal/config"
	"github.com/okian/novacat/pkg/logger"
)

// cfg is loaded once in the root's PersistentPreRunE and shared by the
// subcommands.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "novacat",
	Short:         "novacat curates a deduplicated transient catalog from scraper output",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(); err != nil {
			return err
		}
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			if err := os.Setenv("NOVACAT_CONFIG", path); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}
		return logger.SetLevelString(cfg.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.AddCommand(importCmd, dedupeCmd, statsCmd, versionCmd)
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "novacat:", err)
		os.Exit(1)
	}
}
