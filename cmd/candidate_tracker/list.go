package main

import (
	"context"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List candidates, optionally filtered by a search term",
	Long: `Lists every candidate. With --search, only candidates whose name, email, contract type
or status contains the term (case-insensitive) are shown.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listSearch string

func init() {
	listCommand.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by a case-insensitive search term")
	rootCmd.AddCommand(listCommand)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	observability.NewPrinter(os.Stdout).PrintCandidateTable(service.Search(listSearch))
	return nil
}
