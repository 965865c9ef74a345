// Package cmd holds the stocktracker CLI commands
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/stocktracker/internal/infra/store"
	"github.com/wonny/stocktracker/internal/pkg/config"
	"github.com/wonny/stocktracker/internal/pkg/logger"
)

// Version is overridden at build time with -ldflags
var Version = "1.0.0"

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stocktracker",
	Short: "Stock Tracker - admin CLI",
	Long: `Stock Tracker - admin CLI

Usage:
    go run ./cmd/stocktracker [command]

Commands:
    migrate                     - apply pending schema migrations
    seed                        - insert example positions into an empty store
    stocks list|add|delete      - manage positions through the API
    version                     - print the CLI version
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(stocksCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env plus the environment and sets up console logging
func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.Init(logger.Config{
		Level:          level,
		Format:         "pretty",
		ServiceName:    "stocktracker-cli",
		ServiceVersion: Version,
	})
}

// openStore connects to the configured store
func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	return st, nil
}
