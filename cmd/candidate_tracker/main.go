// Package main provides the candidate tracker command line and local API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/candidate-tracker/internal/config"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	// cfg and logger are resolved once per invocation in PersistentPreRunE.
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "candidate_tracker",
	Short: "Candidate accompaniment tracker",
	Long: `Tracks candidates through a job-search accompaniment: manual entry, CSV form exports,
JSON backups, tracking progress, statistics and a local JSON API for the web front end.

Configuration can be loaded from a JSON or YAML file using --config. DATABASE_URL,
CANDIDATES_STORE_DRIVER and CANDIDATES_STORE_PATH override the file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func setup(_ *cobra.Command, _ []string) error {
	var loaded config.Config
	if configPath != "" {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		loaded = *c
	}

	loaded.ApplyEnv(nil)
	if verbose {
		loaded.Verbose = true
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded.MergeWithDefaults(config.Defaults())

	l, err := observability.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
