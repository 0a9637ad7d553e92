package main

import (
	"context"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Print accompaniment statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer closeStore()

		observability.NewPrinter(os.Stdout).PrintStats(service.Stats())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCommand)
}
