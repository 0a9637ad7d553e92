package main

import (
	"context"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var showCommand = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one candidate with their tracking progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer closeStore()

		c, err := service.Get(args[0])
		if err != nil {
			return err
		}
		observability.NewPrinter(os.Stdout).PrintCandidate(&c)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCommand)
}
