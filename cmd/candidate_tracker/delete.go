package main

import (
	"context"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/spf13/cobra"
)

var deleteCommand = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer closeStore()

		return service.Delete(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCommand)
}
