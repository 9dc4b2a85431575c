package container

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/branchlike"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/newhook/sqwatch/internal/tasks"
	"github.com/newhook/sqwatch/internal/urls"
)

// state is owned by the loop goroutine.
type state struct {
	component     *component.Component
	project       *component.Component
	current       *tasks.Task
	inProgress    []tasks.Task
	isPending     bool
	bindingErrors *api.BindingErrors
	branchLike    *branchlike.BranchLike

	loading   bool
	forbidden bool
	polled    bool

	// Snapshot of the previous reconciled poll. lastInProgress is nil until
	// the first poll.
	lastInProgress []tasks.Task
	lastCurrent    *tasks.Task

	// branchName is the branch the component was last scoped to through
	// the fixed-in pull request's target branch.
	branchName string
	// refetchedForAnalysis is the branch analysis date a refetch was
	// already issued for.
	refetchedForAnalysis string

	componentInFlight bool
	statusInFlight    bool
	branchInFlight    bool
	branchFetched     bool

	componentGen uint64
	statusGen    uint64
	bindingGen   uint64
	branchGen    uint64

	timer    *time.Timer
	timerSeq uint64

	// redirects decided while handling the current message.
	redirects []string
}

// message is anything the loop handles.
type message any

type componentFetched struct {
	gen       uint64
	component *component.Component
	project   *component.Component
	err       error
}

type statusFetched struct {
	gen      uint64
	snapshot tasks.Snapshot
	err      error
}

type bindingErrorsFetched struct {
	gen    uint64
	errors *api.BindingErrors
	err    error
}

type branchFetched struct {
	gen        uint64
	branchLike *branchlike.BranchLike
	err        error
}

type timerFired struct {
	seq uint64
}

type refreshRequested struct{}

type changeRequested struct {
	changes component.Changes
}

func (c *Container) mount() {
	if !c.opts.BranchSupport && c.opts.Branch.Branch != "" {
		c.log.Debug("branch support disabled, dropping branch", "branch", c.opts.Branch.Branch)
		c.bc.Branch = ""
		if c.opts.Navigator != nil {
			c.opts.Navigator.DropBranch()
		}
	}
	c.fetchComponent("")
	c.publish(Mounted)
}

// handle applies m to the state. ok is false when m was stale and nothing
// changed.
func (c *Container) handle(m message) (kind EventKind, ok bool) {
	switch m := m.(type) {
	case componentFetched:
		if m.gen != c.st.componentGen {
			c.log.Debug("dropping stale component fetch", "gen", m.gen)
			return 0, false
		}
		c.onComponentFetched(m)
		return ComponentLoaded, true

	case statusFetched:
		if m.gen != c.st.statusGen {
			c.log.Debug("dropping stale status poll", "gen", m.gen)
			return 0, false
		}
		c.onStatusFetched(m)
		return StatusUpdated, true

	case bindingErrorsFetched:
		if m.gen != c.st.bindingGen {
			return 0, false
		}
		if m.err != nil {
			c.log.Debug("binding validation failed", "error", m.err)
			return 0, false
		}
		c.st.bindingErrors = m.errors
		return BindingErrorsLoaded, true

	case branchFetched:
		if m.gen != c.st.branchGen {
			return 0, false
		}
		c.onBranchFetched(m)
		return BranchResolved, true

	case timerFired:
		if m.seq != c.st.timerSeq || c.st.timer == nil {
			return 0, false
		}
		c.st.timer = nil
		if c.st.component == nil {
			return 0, false
		}
		c.fetchStatus(c.st.component.Key)
		return PollStarted, true

	case refreshRequested:
		c.fetchComponent("")
		return RefreshStarted, true

	case changeRequested:
		if c.st.component == nil {
			return 0, false
		}
		if m.changes.Tags != nil && c.st.project != nil {
			c.st.project = c.st.project.Apply(component.Changes{Tags: m.changes.Tags})
		}
		c.st.component = c.st.component.Apply(m.changes)
		return ComponentChanged, true
	}
	return 0, false
}

// fetchComponent loads the component, its navigation and its root project
// detail. The three requests succeed or fail together.
func (c *Container) fetchComponent(branchName string) {
	st := &c.st
	if branchName != "" {
		st.branchName = branchName
	}
	if st.component == nil || st.component.Key != c.opts.Key {
		st.loading = true
	}

	var target string
	if c.opts.BranchSupport {
		target = c.bc.Branch
		if target == "" {
			target = st.branchName
		}
	}
	key := c.opts.Key
	scoped := api.BranchParameters{Branch: target, PullRequest: c.bc.PullRequest}

	st.componentGen++
	gen := st.componentGen
	st.componentInFlight = true
	fetcher := c.opts.Fetcher

	c.spawn(func(ctx context.Context) message {
		var (
			nav            component.Navigation
			detail, parent component.Component
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			nav, err = fetcher.ComponentNavigation(gctx, key, scoped)
			return err
		})
		g.Go(func() error {
			var err error
			detail, err = fetcher.ComponentData(gctx, key, scoped)
			return err
		})
		g.Go(func() error {
			var err error
			parent, err = fetcher.ComponentData(gctx, key, api.BranchParameters{})
			return err
		})
		if err := g.Wait(); err != nil {
			return componentFetched{gen: gen, err: err}
		}

		comp := component.WithQualifier(nav, detail)
		proj := component.WithQualifier(nav, parent)
		return componentFetched{gen: gen, component: &comp, project: &proj}
	})
}

func (c *Container) onComponentFetched(m componentFetched) {
	st := &c.st
	st.componentInFlight = false
	st.loading = false
	st.forbidden = false
	st.component = m.component
	st.project = m.project

	if m.err != nil {
		c.log.Debug("component fetch failed", "error", m.err)
		if api.IsForbidden(m.err) {
			st.forbidden = true
			if c.opts.OnAuthorizationRequired != nil {
				c.opts.OnAuthorizationRequired()
			}
		}
		return
	}

	comp := st.component
	if strings.Contains(c.opts.Path, "dashboard") && component.IsPortfolioLike(comp.Qualifier) {
		c.redirect(urls.PortfolioURL(c.opts.BaseURL, comp.Key))
	}

	c.fetchStatus(comp.Key)
	c.fetchBindingErrors(comp)
	if c.opts.FixedInPullRequest != "" {
		c.fetchBranch(comp)
	}
	c.remember(comp)
}

// fetchStatus polls the task queue for key.
func (c *Container) fetchStatus(key string) {
	st := &c.st
	st.statusGen++
	gen := st.statusGen
	st.statusInFlight = true
	bc := c.bc
	fetcher := c.opts.Fetcher

	c.spawn(func(ctx context.Context) message {
		snap, err := poll(ctx, fetcher, key, bc)
		return statusFetched{gen: gen, snapshot: snap, err: err}
	})
}

func poll(ctx context.Context, f Fetcher, key string, bc tasks.BranchContext) (tasks.Snapshot, error) {
	q, err := f.TasksForComponent(ctx, key)
	if err != nil {
		return tasks.Snapshot{}, err
	}
	return tasks.Partition(q, bc), nil
}

func (c *Container) onStatusFetched(m statusFetched) {
	st := &c.st
	st.statusInFlight = false
	st.polled = true

	if m.err != nil {
		// Poll failures keep the last known state. The next tick retries.
		c.log.Debug("status poll failed", "error", m.err)
		if tasks.NeedsAnotherCheck(false, st.component, st.inProgress) {
			c.arm()
		}
		return
	}

	snap := m.snapshot
	if snap.InProgress == nil {
		snap.InProgress = []tasks.Task{}
	}
	st.current = snap.Current
	st.inProgress = snap.InProgress
	st.isPending = snap.IsPending

	hasUpdated := tasks.ComputeHasUpdatedTasks(st.lastInProgress, st.inProgress, st.lastCurrent, st.current, st.component)

	if c.bc.AnyBranch && hasUpdated {
		if t := tasks.RedirectCandidate(st.current, st.inProgress); t != nil {
			c.record(db.ReasonRedirect, t)
			c.redirect(redirectURL(c.opts.BaseURL, c.opts.Key, t))
		}
	}

	switch {
	case tasks.NeedsAnotherCheck(hasUpdated, st.component, st.inProgress):
		c.arm()
	case hasUpdated:
		c.record(db.ReasonTasksUpdated, tasks.RedirectCandidate(st.current, st.inProgress))
		c.fetchComponent("")
	}

	st.lastCurrent = st.current
	st.lastInProgress = st.inProgress
}

func redirectURL(base, key string, t *tasks.Task) string {
	if t.PullRequest != "" {
		return urls.PullRequestURL(base, key, t.PullRequest)
	}
	return urls.ProjectURL(base, key, t.Branch)
}

// fetchBindingErrors validates the DevOps binding of projects that were
// never analyzed.
func (c *Container) fetchBindingErrors(comp *component.Component) {
	if !component.IsProject(comp.Qualifier) || comp.AnalysisDate != "" || !c.opts.BranchSupport {
		return
	}
	st := &c.st
	st.bindingGen++
	gen := st.bindingGen
	key := comp.Key
	fetcher := c.opts.Fetcher

	c.spawn(func(ctx context.Context) message {
		errs, err := fetcher.ValidateProjectAlmBinding(ctx, key)
		return bindingErrorsFetched{gen: gen, errors: errs, err: err}
	})
}

// fetchBranch resolves the target branch of the fixed-in pull request.
func (c *Container) fetchBranch(comp *component.Component) {
	st := &c.st
	st.branchGen++
	gen := st.branchGen
	st.branchInFlight = true
	project := comp.Key
	q := branchlike.Query{FixedInPullRequest: c.opts.FixedInPullRequest}
	branches := c.opts.Branches

	c.spawn(func(ctx context.Context) message {
		bl, err := branches.CurrentBranchLike(ctx, project, q)
		return branchFetched{gen: gen, branchLike: bl, err: err}
	})
}

func (c *Container) onBranchFetched(m branchFetched) {
	st := &c.st
	st.branchInFlight = false
	st.branchFetched = true
	if m.err != nil {
		c.log.Debug("branch fetch failed", "error", m.err)
		st.branchLike = nil
		return
	}
	st.branchLike = m.branchLike

	bl := st.branchLike
	comp := st.component
	if bl == nil || comp == nil {
		return
	}

	// The component must show the target branch's code.
	if bl.Branch != nil && comp.Branch != bl.Name() && st.branchName != bl.Name() {
		c.fetchComponent(bl.Name())
		return
	}

	// The branch got its first analysis while the component still has none.
	if date := bl.AnalysisDate(); date != "" && comp.AnalysisDate == "" && date != st.refetchedForAnalysis {
		st.refetchedForAnalysis = date
		c.record(db.ReasonBranchAnalyzed, nil)
		c.fetchComponent("")
	}
}

// arm schedules the next status poll, replacing any scheduled one.
func (c *Container) arm() {
	c.stopTimer()
	c.st.timerSeq++
	seq := c.st.timerSeq
	c.st.timer = time.AfterFunc(c.interval, func() {
		c.post(timerFired{seq: seq})
	})
}

func (c *Container) stopTimer() {
	if c.st.timer != nil {
		c.st.timer.Stop()
		c.st.timer = nil
	}
}

func (c *Container) remember(comp *component.Component) {
	if c.opts.Store == nil {
		return
	}
	err := c.opts.Store.AddRecentComponent(c.ctx, db.RecentComponent{
		Key:         comp.Key,
		Name:        comp.Name,
		Qualifier:   string(comp.Qualifier),
		Branch:      comp.Branch,
		PullRequest: c.bc.PullRequest,
	})
	if err != nil {
		c.log.Warn("failed to record recent component", "error", err)
	}
}

func (c *Container) record(reason string, t *tasks.Task) {
	if c.opts.Store == nil {
		return
	}
	tt := db.TaskTransition{ComponentKey: c.opts.Key, Reason: reason}
	if t != nil {
		tt.TaskID = t.ID
		tt.TaskStatus = string(t.Status)
	}
	if _, err := c.opts.Store.RecordTaskTransition(c.ctx, tt); err != nil {
		c.log.Warn("failed to record task transition", "reason", reason, "error", err)
	}
}
