package main

import (
	"context"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/spf13/cobra"
)

var addCommand = &cobra.Command{
	Use:   "add",
	Short: "Add a candidate from the manual entry form",
	Long: `Adds a single candidate. Name, first name, email, contract type and start date are
required; the email must not already belong to another candidate.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var addRequest types.CreateCandidateRequest

func init() {
	addCommand.Flags().StringVar(&addRequest.LastName, "nom", "", "Last name (required)")
	addCommand.Flags().StringVar(&addRequest.FirstName, "prenom", "", "First name (required)")
	addCommand.Flags().StringVar(&addRequest.Email, "email", "", "Email address (required)")
	addCommand.Flags().StringVar(&addRequest.Phone, "telephone", "", "Phone number")
	addCommand.Flags().StringVar(&addRequest.ContractType, "contrat", string(types.ContractCDI), "Contract type: CDI, CDD, Stage, Alternance or Freelance")
	addCommand.Flags().StringVar(&addRequest.Objective, "objectif", "", "Professional objective")
	addCommand.Flags().StringVar(&addRequest.CVLink, "cv", "", "Link to the CV")
	addCommand.Flags().StringVar(&addRequest.StartDate, "debut", "", "Accompaniment start date, YYYY-MM-DD (required)")

	rootCmd.AddCommand(addCommand)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := service.Create(ctx, addRequest)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintCandidate(&c)
	return nil
}
