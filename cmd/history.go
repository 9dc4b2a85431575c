package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/newhook/sqwatch/internal/db"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit  int
	flagHistoryOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history [component-key]",
	Short: "Show why a component was reloaded",
	Long: `Show the recorded reload decisions of a component, newest first: tasks
that finished, first branch analyses, and redirects after onboarding.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "maximum number of entries (0 for all)")
	historyCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", outputText, "output format: text, json or yaml")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validateOutput(flagHistoryOutput); err != nil {
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

	transitions, err := a.db.ListTaskTransitions(ctx, key, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	return writeOutput(os.Stdout, flagHistoryOutput, transitions, func(w io.Writer) {
		printHistory(w, key, transitions)
	})
}

func printHistory(w io.Writer, key string, transitions []db.TaskTransition) {
	if len(transitions) == 0 {
		fmt.Fprintf(w, "No reloads recorded for %s\n", key)
		return
	}
	for _, tt := range transitions {
		task := tt.TaskID
		if task == "" {
			task = "-"
		}
		fmt.Fprintf(w, "%s  %-16s %s %s\n", tt.ObservedAt.Local().Format("2006-01-02 15:04:05"), tt.Reason, task, tt.TaskStatus)
	}
}
