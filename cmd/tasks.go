package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/newhook/sqwatch/internal/urls"
	"github.com/spf13/cobra"
)

var (
	flagTasksBranch      string
	flagTasksPullRequest string
	flagTasksOutput      string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [component-key]",
	Short: "List a component's background tasks",
	Long: `List the current task and every queued task of a component.

Tasks matching the selected branch or pull request are marked with *. Without
--branch or --pull-request, tasks of the main branch match.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&flagTasksBranch, "branch", "", "branch to match tasks against")
	tasksCmd.Flags().StringVar(&flagTasksPullRequest, "pull-request", "", "pull request to match tasks against")
	tasksCmd.Flags().StringVarP(&flagTasksOutput, "output", "o", outputText, "output format: text, json or yaml")
}

// taskLine is one row of the tasks listing.
type taskLine struct {
	tasks.Task `yaml:",inline"`
	Current    bool `json:"current" yaml:"current"`
	Matches    bool `json:"matches" yaml:"matches"`
}

func runTasks(cmd *cobra.Command, args []string) error {
	if err := validateOutput(flagTasksOutput); err != nil {
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

	q, err := a.client.TasksForComponent(ctx, key)
	if err != nil {
		return describeFetchError(key, err)
	}

	bc := tasks.BranchContext{Branch: flagTasksBranch, PullRequest: flagTasksPullRequest}
	lines := taskLines(q, bc)
	return writeOutput(os.Stdout, flagTasksOutput, lines, func(w io.Writer) {
		printTaskLines(w, lines)
		fmt.Fprintf(w, "\n%s\n", urls.BackgroundTasksURL(a.ws.Config.Server.URL, key, "", ""))
	})
}

// taskLines flattens a queue, current task first.
func taskLines(q tasks.Queue, bc tasks.BranchContext) []taskLine {
	matches := func(t tasks.Task) bool {
		return bc.AnyBranch || tasks.IsSameBranch(t, bc.Branch, bc.PullRequest)
	}

	lines := []taskLine{}
	if q.Current != nil {
		lines = append(lines, taskLine{Task: *q.Current, Current: true, Matches: matches(*q.Current)})
	}
	for _, t := range q.Queue {
		lines = append(lines, taskLine{Task: t, Matches: matches(t)})
	}
	return lines
}

func printTaskLines(w io.Writer, lines []taskLine) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "No background tasks")
		return
	}
	for _, l := range lines {
		marker := " "
		if l.Matches {
			marker = "*"
		}
		where := l.Branch
		if l.PullRequest != "" {
			where = "PR " + l.PullRequest
		}
		if where == "" {
			where = "(main)"
		}
		label := "queued "
		if l.Current {
			label = "current"
		}
		fmt.Fprintf(w, "%s %s %-12s %-11s %-12s %s\n", marker, label, l.ID, l.Status, l.Type, where)
		if l.ErrorMessage != "" {
			fmt.Fprintf(w, "    %s\n", l.ErrorMessage)
		}
	}
}
