//go:generate moq -stub -out fetcher_mock_test.go -pkg container_test . Fetcher BranchFetcher Navigator Store

// Package container keeps one component's view consistent with the server's
// background task queue.
//
// A Container is mounted with Start and unmounted with Close. All of its state
// is owned by a single event-loop goroutine; network calls run in worker
// goroutines and post their completions back to the loop, where completions
// from superseded fetches are dropped. Each state change is published as an
// Event carrying a read-only View.
package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/newhook/sqwatch/internal/api"
	"github.com/newhook/sqwatch/internal/branchlike"
	"github.com/newhook/sqwatch/internal/component"
	"github.com/newhook/sqwatch/internal/db"
	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/pubsub"
	"github.com/newhook/sqwatch/internal/tasks"
)

// DefaultPollInterval is the delay between two task status polls.
const DefaultPollInterval = 3000 * time.Millisecond

// Fetcher is the part of the REST client the container needs.
type Fetcher interface {
	ComponentNavigation(ctx context.Context, key string, bp api.BranchParameters) (component.Navigation, error)
	ComponentData(ctx context.Context, key string, bp api.BranchParameters) (component.Component, error)
	TasksForComponent(ctx context.Context, key string) (tasks.Queue, error)
	ValidateProjectAlmBinding(ctx context.Context, project string) (*api.BindingErrors, error)
}

// BranchFetcher resolves the branch-like a view is looking at.
type BranchFetcher interface {
	CurrentBranchLike(ctx context.Context, project string, q branchlike.Query) (*branchlike.BranchLike, error)
}

// Navigator receives the location changes the container decides on.
type Navigator interface {
	// Replace navigates to url without keeping the current location.
	Replace(url string)
	// DropBranch removes the branch parameter from the current location.
	DropBranch()
}

// Store keeps the client-side history.
type Store interface {
	AddRecentComponent(ctx context.Context, rc db.RecentComponent) error
	RecordTaskTransition(ctx context.Context, tt db.TaskTransition) (string, error)
}

// Options configures a Container.
type Options struct {
	Key string
	// Branch scopes task matching. AnyBranch is also implied by a Path
	// containing "tutorials".
	Branch             tasks.BranchContext
	FixedInPullRequest string
	Path               string
	BranchSupport      bool
	PollInterval       time.Duration
	// BaseURL prefixes the URLs handed to the Navigator.
	BaseURL string

	Fetcher   Fetcher
	Branches  BranchFetcher
	Navigator Navigator
	Store     Store

	// OnAuthorizationRequired is called when the component fetch is refused.
	OnAuthorizationRequired func()
}

// Validate checks the options for required fields.
func (o *Options) Validate() error {
	switch {
	case o.Key == "":
		return errors.New("component key is required")
	case o.Fetcher == nil:
		return errors.New("fetcher is required")
	case o.FixedInPullRequest != "" && o.Branches == nil:
		return errors.New("branch fetcher is required with a fixed-in pull request")
	}
	return nil
}

// Container is one mounted component view.
type Container struct {
	opts     Options
	bc       tasks.BranchContext
	interval time.Duration
	log      *slog.Logger
	broker   *pubsub.Broker[Event]

	inbox   chan message
	ctx     context.Context
	cancel  context.CancelFunc
	loop    sync.WaitGroup
	workers sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once
	started   bool

	mu     sync.RWMutex
	latest View

	// Everything below is owned by the loop goroutine.
	st state
}

// New creates an unmounted container.
func New(opts Options) (*Container, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid container options: %w", err)
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	bc := opts.Branch
	if strings.Contains(opts.Path, "tutorials") {
		bc.AnyBranch = true
	}

	c := &Container{
		opts:     opts,
		bc:       bc,
		interval: interval,
		log:      logging.With("container", uuid.NewString(), "component", opts.Key),
		broker:   pubsub.NewBroker[Event](),
		inbox:    make(chan message, 16),
	}
	c.st.loading = true
	c.latest = c.view()
	return c, nil
}

// Start mounts the container: it starts the event loop and issues the first
// component fetch. The container is unmounted when ctx is done or Close is
// called.
func (c *Container) Start(ctx context.Context) error {
	err := errors.New("container already started")
	c.startOnce.Do(func() {
		err = nil
		c.ctx, c.cancel = context.WithCancel(ctx)
		c.started = true
		c.loop.Add(1)
		go c.run()
	})
	return err
}

// Close unmounts the container. It stops the poll timer, stops the loop,
// waits for in-flight workers and closes every subscription. Close is
// idempotent.
func (c *Container) Close() {
	c.closeOnce.Do(func() {
		if c.started {
			c.cancel()
			c.loop.Wait()
			c.workers.Wait()
		}
		c.broker.Shutdown()
	})
}

// Subscribe returns a channel of events, closed on ctx done or Close.
func (c *Container) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return c.broker.Subscribe(ctx)
}

// View returns the latest published snapshot.
func (c *Container) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest.clone()
}

// Refresh asks the container to fetch the component again.
func (c *Container) Refresh() {
	c.post(refreshRequested{})
}

// OnComponentChange applies a partial update coming from the view layer.
func (c *Container) OnComponentChange(ch component.Changes) {
	c.post(changeRequested{changes: ch})
}

// post hands m to the loop. It gives up once the container is unmounted.
func (c *Container) post(m message) {
	if c.ctx == nil {
		return
	}
	select {
	case c.inbox <- m:
	case <-c.ctx.Done():
	}
}

// spawn runs fn in a worker goroutine and posts its result to the loop.
func (c *Container) spawn(fn func(ctx context.Context) message) {
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		c.post(fn(c.ctx))
	}()
}

func (c *Container) run() {
	defer c.loop.Done()
	defer c.stopTimer()

	c.mount()
	for {
		select {
		case <-c.ctx.Done():
			c.log.Debug("container unmounted")
			return
		case m := <-c.inbox:
			if kind, ok := c.handle(m); ok {
				c.publish(kind)
			}
			c.flushRedirects()
		}
	}
}

func (c *Container) publish(kind EventKind) {
	v := c.view()
	c.mu.Lock()
	c.latest = v
	c.mu.Unlock()
	c.broker.Publish(pubsub.UpdatedEvent, Event{Kind: kind, View: v.clone()})
}

// redirect queues a navigation to url. It is carried out once the message
// being handled has finished its state transition, so the Redirected event
// reports the phase the container moved to.
func (c *Container) redirect(url string) {
	c.st.redirects = append(c.st.redirects, url)
}

// flushRedirects hands the queued redirects to the Navigator and publishes them.
func (c *Container) flushRedirects() {
	pending := c.st.redirects
	c.st.redirects = nil
	for _, url := range pending {
		c.log.Info("redirecting", "url", url)
		if c.opts.Navigator != nil {
			c.opts.Navigator.Replace(url)
		}
		v := c.view()
		c.mu.Lock()
		c.latest = v
		c.mu.Unlock()
		c.broker.Publish(pubsub.UpdatedEvent, Event{Kind: Redirected, View: v.clone(), URL: url})
	}
}
