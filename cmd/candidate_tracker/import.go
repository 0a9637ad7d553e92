package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/jonathan/candidate-tracker/internal/tracker"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/spf13/cobra"
)

var importCommand = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV form export or a JSON backup",
	Long: `Imports candidates from a .csv form export or a .json backup.

In merge mode (default) records whose email is already known are skipped. In replace mode
the whole collection is swapped for the file's records. A file without any valid record
never changes the collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importMode string

func init() {
	importCommand.Flags().StringVarP(&importMode, "mode", "m", "", "Commit mode: merge or replace (default from config)")
	rootCmd.AddCommand(importCommand)
}

// resolveMode picks the flag value when given, else the configured default.
func resolveMode(flag string) (types.ImportMode, error) {
	if flag == "" {
		flag = cfg.ImportMode
	}
	return types.ParseImportMode(flag)
}

// summarize converts an import report for the printer.
func summarize(r *tracker.ImportReport) *observability.ImportSummary {
	return &observability.ImportSummary{
		FileName:   r.FileName,
		Mode:       r.Mode,
		Parsed:     r.Parsed,
		Added:      r.Added,
		Duplicates: r.Duplicates,
		Failed:     r.Failed,
		Replaced:   r.Replaced,
		Failures:   r.FailureMessages(),
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	mode, err := resolveMode(importMode)
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	ctx := context.Background()
	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := service.Import(ctx, filepath.Base(path), content, mode)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintImportSummary(summarize(report))
	return nil
}
