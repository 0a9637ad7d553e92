package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/observability"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/spf13/cobra"
)

var updateCommand = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a candidate's tracking fields",
	Long: `Updates the accompaniment tracking of one candidate. Only the flags given on the
command line are changed; every other field keeps its stored value.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// trackingFlags holds the update command's flag values.
type trackingFlags struct {
	discoveryCall    bool
	cvReview         bool
	linkedInReview   bool
	interviewPrep    bool
	applicationCount string
	targetCompanies  string
	interviewsPassed string
	status           string
}

var updateFlags trackingFlags

func init() {
	updateFlags.register(updateCommand)
	rootCmd.AddCommand(updateCommand)
}

func (f *trackingFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.discoveryCall, "appel-decouverte", false, "Discovery call done")
	cmd.Flags().BoolVar(&f.cvReview, "optimisation-cv", false, "CV review done")
	cmd.Flags().BoolVar(&f.linkedInReview, "optimisation-linkedin", false, "LinkedIn review done")
	cmd.Flags().BoolVar(&f.interviewPrep, "preparation-entretiens", false, "Interview preparation done")
	cmd.Flags().StringVar(&f.applicationCount, "candidatures", "", "Number of applications sent (non-numeric counts as 0)")
	cmd.Flags().StringVar(&f.targetCompanies, "entreprises", "", "Targeted companies")
	cmd.Flags().StringVar(&f.interviewsPassed, "entretiens", "", "Interviews passed")
	cmd.Flags().StringVar(&f.status, "statut", "", "Status: en cours, en entretien, embauché or en pause")
}

// request builds a request holding only the flags the user set.
func (f *trackingFlags) request(cmd *cobra.Command) types.UpdateTrackingRequest {
	var req types.UpdateTrackingRequest
	flags := cmd.Flags()

	if flags.Changed("appel-decouverte") {
		req.DiscoveryCall = &f.discoveryCall
	}
	if flags.Changed("optimisation-cv") {
		req.CVReview = &f.cvReview
	}
	if flags.Changed("optimisation-linkedin") {
		req.LinkedInReview = &f.linkedInReview
	}
	if flags.Changed("preparation-entretiens") {
		req.InterviewPrep = &f.interviewPrep
	}
	if flags.Changed("candidatures") {
		count := types.ParseCount(f.applicationCount)
		req.ApplicationCount = &count
	}
	if flags.Changed("entreprises") {
		req.TargetCompanies = &f.targetCompanies
	}
	if flags.Changed("entretiens") {
		req.InterviewsPassed = &f.interviewsPassed
	}
	if flags.Changed("statut") {
		req.Status = &f.status
	}
	return req
}

func runUpdate(cmd *cobra.Command, args []string) error {
	req := updateFlags.request(cmd)
	if req.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one tracking flag")
	}

	ctx := context.Background()
	service, closeStore, err := openService(ctx, notify.NewConsole(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := service.UpdateTracking(ctx, args[0], req)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintCandidate(&c)
	return nil
}
