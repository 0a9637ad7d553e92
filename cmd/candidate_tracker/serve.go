package main

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/server"
	"github.com/spf13/cobra"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API for the web front end",
	Long: `Starts an HTTP server on localhost exposing the tracker as a JSON API.

Endpoints:
  GET    /health                    Health check
  GET    /candidates?q=term         List or search candidates
  POST   /candidates                Add a candidate
  GET    /candidates/{id}           Get a candidate
  PUT    /candidates/{id}/tracking  Update tracking fields
  DELETE /candidates/{id}           Delete a candidate
  GET    /stats                     Status counters
  GET    /export                    Download a JSON backup
  POST   /import?mode=merge         Upload a CSV or JSON file (multipart field "file")
  GET    /notice                    Current notification, 204 when none
  GET    /schemas/import            JSON Schema of an importable backup`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort int
	serveHost string
)

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config, 8080)")
	serveCommand.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to bind")
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	mode, err := resolveMode("")
	if err != nil {
		return err
	}

	banner := notify.NewBanner(cfg.NoticeTTL())
	service, closeStore, err := openService(context.Background(), banner)
	if err != nil {
		banner.Close()
		return err
	}
	defer closeStore()

	srv := server.New(server.Config{
		Host:        serveHost,
		Port:        port,
		DefaultMode: mode,
	}, service, banner, logger.Named("server"))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s:%d\n", serveHost, port)
	return srv.Start()
}
