package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/config"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagStatusBranch      string
	flagStatusPullRequest string
	flagStatusOutput      string
)

var statusCmd = &cobra.Command{
	Use:   "status [component-key]",
	Short: "Show a component and its background tasks",
	Long: `Show a one-shot snapshot of a component: its analysis date and the
background tasks relevant to the selected branch or pull request.

Without a key, the most recently viewed component is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&flagStatusBranch, "branch", "", "branch to scope to")
	statusCmd.Flags().StringVar(&flagStatusPullRequest, "pull-request", "", "pull request to scope to")
	statusCmd.Flags().StringVarP(&flagStatusOutput, "output", "o", outputText, "output format: text, json or yaml")
}

// statusReport is the snapshot printed by the status command.
type statusReport struct {
	Component   component.Component `json:"component" yaml:"component"`
	URL         string              `json:"url" yaml:"url"`
	CurrentTask *tasks.Task         `json:"currentTask,omitempty" yaml:"currentTask,omitempty"`
	InProgress  []tasks.Task        `json:"inProgress" yaml:"inProgress"`
	Pending     bool                `json:"pending" yaml:"pending"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := validateOutput(flagStatusOutput); err != nil {
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

	bp := api.BranchParameters{Branch: flagStatusBranch, PullRequest: flagStatusPullRequest}
	report, err := fetchStatusReport(ctx, a.client, key, bp)
	if err != nil {
		return describeFetchError(key, err)
	}
	report.URL = urlForComponent(a.ws.Config.Server.URL, &report.Component)

	if err := a.db.AddRecentComponent(ctx, db.RecentComponent{
		Key:         report.Component.Key,
		Name:        report.Component.Name,
		Qualifier:   string(report.Component.Qualifier),
		Branch:      bp.Branch,
		PullRequest: bp.PullRequest,
	}); err != nil {
		logging.Warn("failed to record recent component", "component", key, "error", err)
	}

	return writeOutput(os.Stdout, flagStatusOutput, report, func(w io.Writer) {
		printStatusReport(w, report)
	})
}

// fetchStatusReport loads the component and its task queue concurrently.
func fetchStatusReport(ctx context.Context, f statusFetcher, key string, bp api.BranchParameters) (*statusReport, error) {
	var (
		nav    component.Navigation
		detail component.Component
		queue  tasks.Queue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		nav, err = f.ComponentNavigation(gctx, key, bp)
		return err
	})
	g.Go(func() (err error) {
		detail, err = f.ComponentData(gctx, key, bp)
		return err
	})
	g.Go(func() (err error) {
		queue, err = f.TasksForComponent(gctx, key)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comp := component.WithQualifier(nav, detail)
	snap := tasks.Partition(queue, tasks.BranchContext{Branch: bp.Branch, PullRequest: bp.PullRequest})
	return &statusReport{
		Component:   comp,
		CurrentTask: snap.Current,
		InProgress:  snap.InProgress,
		Pending:     snap.IsPending,
	}, nil
}

// statusFetcher is the part of the REST client the status command uses.
type statusFetcher interface {
	ComponentNavigation(ctx context.Context, key string, bp api.BranchParameters) (component.Navigation, error)
	ComponentData(ctx context.Context, key string, bp api.BranchParameters) (component.Component, error)
	TasksForComponent(ctx context.Context, key string) (tasks.Queue, error)
}

func printStatusReport(w io.Writer, r *statusReport) {
	c := r.Component
	fmt.Fprintf(w, "Component: %s (%s)\n", c.Name, c.Key)
	fmt.Fprintf(w, "Qualifier: %s\n", c.Qualifier)
	if c.Branch != "" {
		fmt.Fprintf(w, "Branch:    %s\n", c.Branch)
	}
	if c.PullRequest != "" {
		fmt.Fprintf(w, "PR:        %s\n", c.PullRequest)
	}
	if c.AnalysisDate != "" {
		fmt.Fprintf(w, "Analyzed:  %s\n", c.AnalysisDate)
	} else {
		fmt.Fprintf(w, "Analyzed:  never\n")
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(c.Tags, ", "))
	}
	if r.URL != "" {
		fmt.Fprintf(w, "URL:       %s\n", r.URL)
	}

	switch {
	case len(r.InProgress) > 0:
		fmt.Fprintf(w, "Analysis:  in progress (%d task(s))\n", len(r.InProgress))
	case r.Pending:
		fmt.Fprintf(w, "Analysis:  pending\n")
	default:
		fmt.Fprintf(w, "Analysis:  idle\n")
	}
	if t := r.CurrentTask; t != nil {
		fmt.Fprintf(w, "Last task: %s %s", t.ID, t.Status)
		if t.ExecutedAt != "" {
			fmt.Fprintf(w, " at %s", t.ExecutedAt)
		}
		fmt.Fprintln(w)
		if t.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:     %s\n", t.ErrorMessage)
		}
	}
}

// describeFetchError turns the escalating HTTP failures into user-facing messages.
func describeFetchError(key string, err error) error {
	switch {
	case api.IsForbidden(err):
		return fmt.Errorf("not authorized to browse %s; check the token in config or %s", key, config.TokenEnv)
	case api.IsNotFound(err):
		return fmt.Errorf("component %s not found", key)
	}
	return fmt.Errorf("failed to fetch %s: %w", key, err)
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
