package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/spf13/cobra"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export every candidate as a JSON backup",
	Long: `Writes the collection to a JSON backup that "import" accepts back. Without --out the
file is named candidats-export-YYYY-MM-DD.json in the current directory; "-" writes to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOut string

func init() {
	exportCommand.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path, or - for stdout")
	rootCmd.AddCommand(exportCommand)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := json.MarshalIndent(service.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	path := exportOut
	if path == "" {
		path = service.ExportFileName()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Exported to %s\n", path)
	return nil
}
