package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/candidate-tracker/internal/inbox"
	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCommand = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import CSV and JSON files as they are dropped into a directory",
	Long: `Watches a directory and imports every .csv or .json file written into it once the
file has been quiet for the debounce window. Files are imported one at a time with the
selected mode. Stops on SIGINT or SIGTERM.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchMode string

func init() {
	watchCommand.Flags().StringVarP(&watchMode, "mode", "m", "", "Commit mode: merge or replace (default from config)")
	rootCmd.AddCommand(watchCommand)
}

func runWatch(cmd *cobra.Command, args []string) error {
	mode, err := resolveMode(watchMode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	printer := observability.NewPrinter(os.Stdout)
	importFn := func(ctx context.Context, fileName string, content []byte) error {
		report, err := service.Import(ctx, fileName, content, mode)
		if err != nil {
			return err
		}
		printer.PrintImportSummary(summarize(report))
		return nil
	}

	w, err := inbox.New(args[0], cfg.WatchDebounce(), importFn, logger.Named("inbox"))
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil {
		return err
	}

	stats := w.Stats()
	logger.Info("inbox watcher finished", zap.Int("imported", stats.Imported), zap.Int("failed", stats.Failed))
	return nil
}
