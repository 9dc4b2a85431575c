package cmd

import (
	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/newhook/sqwatch/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagDashboardBranch      string
	flagDashboardPullRequest string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [component-key]",
	Short: "Open the interactive component dashboard",
	Long: `Open a full-screen dashboard for a component that follows its background
analysis live. Press r to reload the component, q to quit.

Without a key, the most recently viewed component is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&flagDashboardBranch, "branch", "", "branch to scope tasks to")
	dashboardCmd.Flags().StringVar(&flagDashboardPullRequest, "pull-request", "", "pull request to scope tasks to")
}

func runDashboard(cmd *cobra.Command, args []string) error {
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

	bc := tasks.BranchContext{Branch: flagDashboardBranch, PullRequest: flagDashboardPullRequest}
	opts := a.containerOptions(key, bc, logNavigator{key: key})
	opts.OnAuthorizationRequired = func() {
		logging.Warn("authorization required", "component", key)
	}

	c, err := container.New(opts)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Start(ctx); err != nil {
		return err
	}

	return tui.Run(ctx, c)
}
