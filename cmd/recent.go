package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/spf13/cobra"
)

var (
	flagRecentMatch  string
	flagRecentLimit  int
	flagRecentOutput string
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently viewed components",
	Long: `List the components recently viewed with status, watch or dashboard,
newest first.

--match filters keys with a glob pattern (e.g. "acme:*" or "**/payments-*").`,
	Args: cobra.NoArgs,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().StringVar(&flagRecentMatch, "match", "", "glob pattern the component key must match")
	recentCmd.Flags().IntVarP(&flagRecentLimit, "limit", "n", 0, "maximum number of entries (0 for all)")
	recentCmd.Flags().StringVarP(&flagRecentOutput, "output", "o", outputText, "output format: text, json or yaml")
}

func runRecent(cmd *cobra.Command, args []string) error {
	if err := validateOutput(flagRecentOutput); err != nil {
		return err
	}
	if flagRecentMatch != "" && !doublestar.ValidatePattern(flagRecentMatch) {
		return fmt.Errorf("invalid --match pattern %q", flagRecentMatch)
	}

	ctx := GetContext()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.db.ListRecentComponents(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list recent components: %w", err)
	}
	recent := filterRecent(all, flagRecentMatch, flagRecentLimit)

	return writeOutput(os.Stdout, flagRecentOutput, recent, func(w io.Writer) {
		printRecent(w, recent)
	})
}

// filterRecent keeps the entries whose key matches pattern, up to limit.
// The pattern must already be valid.
func filterRecent(recent []db.RecentComponent, pattern string, limit int) []db.RecentComponent {
	out := []db.RecentComponent{}
	for _, rc := range recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		if pattern != "" && !doublestar.MatchUnvalidated(pattern, rc.Key) {
			continue
		}
		out = append(out, rc)
	}
	return out
}

func printRecent(w io.Writer, recent []db.RecentComponent) {
	if len(recent) == 0 {
		fmt.Fprintln(w, "No recently viewed components")
		return
	}
	for _, rc := range recent {
		scope := ""
		switch {
		case rc.PullRequest != "":
			scope = " (PR " + rc.PullRequest + ")"
		case rc.Branch != "":
			scope = " (" + rc.Branch + ")"
		}
		fmt.Fprintf(w, "%s  %-4s %s%s  %s\n", rc.ViewedAt.Local().Format("2006-01-02 15:04"), rc.Qualifier, rc.Key, scope, rc.Name)
	}
}
