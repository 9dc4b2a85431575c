package cmd

import (
	"context"
	"fmt"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/config"
	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/newhook/sqwatch/internal/urls"
)

// app bundles what every command needs from a workspace.
type app struct {
	ws       *config.Workspace
	client   *api.Client
	branches *api.CachedBranches
	db       *db.DB
}

func openApp(ctx context.Context) (*app, error) {
	ws, err := config.Find(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("not in a workspace: %w", err)
	}

	a := &app{ws: ws}
	if err := a.connect(); err != nil {
		return nil, err
	}

	database, err := db.OpenPath(ctx, ws.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	database.SetMaxRecent(ws.Config.History.GetMaxRecent())
	a.db = database
	return a, nil
}

// connect (re)builds the REST client from the current config.
func (a *app) connect() error {
	cfg := a.ws.Config
	client, err := api.NewClient(cfg.Server.URL, cfg.Server.GetToken(), cfg.Server.GetTimeout())
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	a.client = client
	a.branches = api.NewCachedBranches(client, cfg.Polling.GetBranchStaleTime())
	return nil
}

// reload re-reads the config file and reconnects.
func (a *app) reload() error {
	if err := a.ws.Reload(); err != nil {
		return err
	}
	if err := a.ws.Config.Validate(); err != nil {
		return err
	}
	a.db.SetMaxRecent(a.ws.Config.History.GetMaxRecent())
	return a.connect()
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = logging.Close()
}

// resolveKey returns key, or the most recently viewed component when key is empty.
func (a *app) resolveKey(ctx context.Context, key string) (string, error) {
	if key != "" {
		return key, nil
	}
	recent, err := a.db.ListRecentComponents(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("failed to list recent components: %w", err)
	}
	if len(recent) == 0 {
		return "", fmt.Errorf("no component key given and nothing viewed recently")
	}
	return recent[0].Key, nil
}

// containerOptions fills the workspace-derived parts of a container's options.
func (a *app) containerOptions(key string, bc tasks.BranchContext, nav container.Navigator) container.Options {
	cfg := a.ws.Config
	return container.Options{
		Key:           key,
		Branch:        bc,
		BranchSupport: cfg.Features.HasBranchSupport(),
		PollInterval:  cfg.Polling.GetInterval(),
		BaseURL:       cfg.Server.URL,
		Fetcher:       a.client,
		Branches:      a.branches,
		Navigator:     nav,
		Store:         a.db,
	}
}

// logNavigator records navigation decisions; the terminal has no location to change.
type logNavigator struct {
	key string
}

func (n logNavigator) Replace(url string) {
	logging.Info("navigation replaced", "component", n.key, "url", url)
}

func (n logNavigator) DropBranch() {
	logging.Debug("branch parameter dropped", "component", n.key)
}

// urlForComponent is where a browser would show c.
func urlForComponent(base string, c *component.Component) string {
	if c == nil {
		return ""
	}
	return urls.OverviewURL(base, c.Key, c.Qualifier, c.Branch, c.PullRequest)
}
