package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/gitctx"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/newhook/sqwatch/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	flagWatchBranch      string
	flagWatchPullRequest string
	flagWatchTutorial    bool
	flagWatchFixedInPR   string
	flagWatchInterval    time.Duration
	flagWatchFromGit     bool
	flagWatchFollow      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [component-key]",
	Short: "Follow a component's background analysis",
	Long: `Mount a component and print every state change: the component load,
each task status poll and the refresh triggered when a new analysis lands.

The command exits once nothing is scheduled or in flight. With --follow it keeps
the component mounted, and reloads the config and remounts when
.sqwatch/config.toml changes. Ctrl-C unmounts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchBranch, "branch", "", "branch to scope tasks to")
	watchCmd.Flags().StringVar(&flagWatchPullRequest, "pull-request", "", "pull request to scope tasks to")
	watchCmd.Flags().BoolVar(&flagWatchTutorial, "tutorial", false, "accept tasks of any branch and redirect once the first analysis lands")
	watchCmd.Flags().StringVar(&flagWatchFixedInPR, "fixed-in-pr", "", "pull request whose target branch is being viewed")
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", 0, "task status poll interval (default from config)")
	watchCmd.Flags().BoolVar(&flagWatchFromGit, "from-git", false, "scope to the branch checked out in the current git repository")
	watchCmd.Flags().BoolVar(&flagWatchFollow, "follow", false, "keep watching after the analysis settles")
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	bc, err := watchBranchContext()
	if err != nil {
		return err
	}

	if !flagWatchFollow {
		return watchComponent(ctx, watchOptions(a, key, bc), os.Stdout, false)
	}
	return followComponent(ctx, a, key, bc, os.Stdout)
}

func watchBranchContext() (tasks.BranchContext, error) {
	bc := tasks.BranchContext{
		Branch:      flagWatchBranch,
		PullRequest: flagWatchPullRequest,
		AnyBranch:   flagWatchTutorial,
	}
	if flagWatchFromGit && bc.Branch == "" && bc.PullRequest == "" {
		branch, err := gitctx.CurrentBranch(".")
		if err != nil {
			return bc, fmt.Errorf("failed to read current git branch: %w", err)
		}
		bc.Branch = branch
	}
	return bc, nil
}

func watchOptions(a *app, key string, bc tasks.BranchContext) container.Options {
	opts := a.containerOptions(key, bc, logNavigator{key: key})
	opts.FixedInPullRequest = flagWatchFixedInPR
	if flagWatchInterval > 0 {
		opts.PollInterval = flagWatchInterval
	}
	if flagWatchTutorial {
		opts.Path = "/tutorials"
	}
	return opts
}

// followComponent keeps a container mounted until ctx is done, remounting it
// with a fresh client whenever the config file changes.
func followComponent(ctx context.Context, a *app, key string, bc tasks.BranchContext, w io.Writer) error {
	cw, err := watcher.New(watcher.DefaultConfig(a.ws.ConfigPath()))
	if err != nil {
		return err
	}
	if err := cw.Start(); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	defer func() { _ = cw.Stop() }()
	changes := cw.Broker().Subscribe(ctx)

	for {
		mctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		opts := watchOptions(a, key, bc)
		go func() { done <- watchComponent(mctx, opts, w, true) }()

		select {
		case <-ctx.Done():
			cancel()
			<-done
			return nil
		case err := <-done:
			cancel()
			return err
		case _, ok := <-changes:
			cancel()
			<-done
			if !ok {
				return nil
			}
			if err := a.reload(); err != nil {
				logging.Warn("config reload failed, keeping previous", "error", err)
				fmt.Fprintf(w, "config reload failed: %v\n", err)
				continue
			}
			fmt.Fprintln(w, "config changed, remounting")
		}
	}
}

// watchComponent mounts one container and prints its events. Unless follow is
// set it returns once the container settles.
func watchComponent(ctx context.Context, opts container.Options, w io.Writer, follow bool) error {
	denied := make(chan struct{}, 1)
	opts.OnAuthorizationRequired = func() {
		select {
		case denied <- struct{}{}:
		default:
		}
	}

	c, err := container.New(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	events := c.Subscribe(ctx)
	if err := c.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-denied:
			return describeFetchError(opts.Key, errForbidden)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "%s %s\n", time.Now().Format("15:04:05"), formatEvent(ev.Payload))

			v := ev.Payload.View
			switch {
			case v.Forbidden:
				return describeFetchError(opts.Key, errForbidden)
			case v.NotFound:
				return describeFetchError(opts.Key, errNotFound)
			}
			if !follow && v.Settled {
				return nil
			}
		}
	}
}
