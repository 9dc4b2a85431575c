package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagGateBranch      string
	flagGatePullRequest string
	flagGateOutput      string
)

var gateCmd = &cobra.Command{
	Use:   "gate [project-key]",
	Short: "Show the quality gate of a project",
	Long: `Show which quality gate a project is evaluated against and the gate's
verdict for a branch or pull request, with the failing conditions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&flagGateBranch, "branch", "", "branch to evaluate")
	gateCmd.Flags().StringVar(&flagGatePullRequest, "pull-request", "", "pull request to evaluate")
	gateCmd.Flags().StringVarP(&flagGateOutput, "output", "o", outputText, "output format: text, json or yaml")
}

// gateReport is the output of the gate command. ValidLicense is nil when the
// server has no commercial edition.
type gateReport struct {
	Project      string            `json:"project" yaml:"project"`
	Gate         api.QualityGate   `json:"gate" yaml:"gate"`
	Status       api.ProjectStatus `json:"status" yaml:"status"`
	ValidLicense *bool             `json:"validLicense,omitempty" yaml:"validLicense,omitempty"`
}

// gateFetcher is the part of the REST client the gate command uses.
type gateFetcher interface {
	GateForProject(ctx context.Context, project string) (api.QualityGate, error)
	ProjectStatus(ctx context.Context, project string, bp api.BranchParameters) (api.ProjectStatus, error)
	IsValidLicense(ctx context.Context) (bool, error)
}

func runGate(cmd *cobra.Command, args []string) error {
	if err := validateOutput(flagGateOutput); err != nil {
		return err
	}
	ctx := GetContext()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	key, err := a.resolveKey(ctx, firstArg(args))
	if err != nil {
		return err
	}

	bp := api.BranchParameters{Branch: flagGateBranch, PullRequest: flagGatePullRequest}
	report, err := fetchGateReport(ctx, a.client, key, bp)
	if err != nil {
		return describeFetchError(key, err)
	}
	return writeOutput(os.Stdout, flagGateOutput, report, func(w io.Writer) {
		printGateReport(w, report)
	})
}

func fetchGateReport(ctx context.Context, f gateFetcher, project string, bp api.BranchParameters) (*gateReport, error) {
	report := &gateReport{Project: project}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Gate, err = f.GateForProject(gctx, project)
		return err
	})
	g.Go(func() (err error) {
		report.Status, err = f.ProjectStatus(gctx, project, bp)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Community editions have no license endpoint.
	valid, err := f.IsValidLicense(ctx)
	if err != nil {
		logging.Debug("license check unavailable", "error", err)
	} else {
		report.ValidLicense = &valid
	}
	return report, nil
}

func printGateReport(w io.Writer, r *gateReport) {
	name := r.Gate.Name
	if r.Gate.IsDefault {
		name += " (default)"
	}
	fmt.Fprintf(w, "Project: %s\n", r.Project)
	fmt.Fprintf(w, "Gate:    %s\n", name)
	fmt.Fprintf(w, "Status:  %s\n", r.Status.Status)
	if r.ValidLicense != nil && !*r.ValidLicense {
		fmt.Fprintln(w, "License: invalid")
	}
	for _, c := range r.Status.Conditions {
		if c.Status == "OK" {
			continue
		}
		fmt.Fprintf(w, "  %-5s %s %s %s (actual %s)\n", c.Status, c.MetricKey, c.Comparator, c.ErrorThreshold, c.ActualValue)
	}
}
