package cmd

import (
	"context"

	sqsignal "github.com/newhook/sqwatch/internal/signal"
	"github.com/spf13/cobra"
)

var (
	// rootCtx holds the signal-cancellable context for the application
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// flagConfigDir starts workspace discovery somewhere other than the cwd
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "sqwatch",
	Short: "Watch background analysis of code-quality components",
	Long: `sqwatch loads a component from a code-quality analysis server, polls its
background task queue while an analysis is pending or running, and refreshes the
component when a newer analysis lands.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = sqsignal.WithSignalCancel(context.Background())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
	// Default to the dashboard of the most recently viewed component
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns the root context that is cancelled on SIGINT/SIGTERM.
// This should be used by all subcommands instead of context.Background().
func GetContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory to start looking for .sqwatch/config.toml")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(historyCmd)
}
