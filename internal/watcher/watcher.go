// Package watcher reports, debounced, when a file on disk changes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/newhook/sqwatch/internal/logging"
	"github.com/newhook/sqwatch/internal/pubsub"
)

// EventType identifies what changed.
type EventType int

const (
	// FileChanged is published after writes to the watched file settle.
	FileChanged EventType = iota
)

// Event is the payload published on the broker.
type Event struct {
	Type EventType
	Path string
}

// Config configures a Watcher.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig watches path with a 100ms debounce.
func DefaultConfig(path string) Config {
	return Config{Path: path, DebounceDur: 100 * time.Millisecond}
}

// Watcher watches the directory holding Path and publishes one FileChanged
// per burst of writes to Path. Watching the directory survives editors that
// replace the file instead of writing it in place.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	broker *pubsub.Broker[Event]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = DefaultConfig(cfg.Path).DebounceDur
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cfg:    cfg,
		fsw:    fsw,
		broker: pubsub.NewBroker[Event](),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Broker returns the broker events are published on.
func (w *Watcher) Broker() *pubsub.Broker[Event] {
	return w.broker
}

// Start begins watching.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.cfg.Path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops watching and closes every subscription.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	w.broker.Shutdown()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	target := filepath.Clean(w.cfg.Path)

	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("file watcher error", "path", w.cfg.Path, "error", err)
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.DebounceDur, func() {
		if w.ctx.Err() != nil {
			return
		}
		logging.Debug("watched file changed", "path", w.cfg.Path)
		w.broker.Publish(pubsub.UpdatedEvent, Event{Type: FileChanged, Path: w.cfg.Path})
	})
}
