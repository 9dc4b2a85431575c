// Package signal wires SIGINT/SIGTERM into context cancellation and lets
// critical sections (schema migrations) hold cancellation back.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	// mu protects blockCount and deferred.
	mu sync.Mutex
	// blockCount tracks nested BlockSignals calls. Cancellation is held
	// back while it is above zero.
	blockCount int
	// deferred holds cancels for signals that arrived while blocked.
	// Each WithSignalCancel context contributes at most one.
	deferred []context.CancelFunc
)

// WithSignalCancel returns a context that is cancelled when SIGINT or SIGTERM
// is received. If the signal lands inside a BlockSignals section, the cancel
// is queued and runs on the final UnblockSignals instead.
// The returned cancel function should be called to release the signal
// subscription when done.
func WithSignalCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	// Buffered so a signal arriving before the goroutine is scheduled
	// is not dropped.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			mu.Lock()
			if blockCount > 0 {
				// Queue the cancel for UnblockSignals.
				deferred = append(deferred, cancel)
				mu.Unlock()
				return
			}
			mu.Unlock()
			cancel()
		case <-ctx.Done():
			// Cancelled by the caller or the parent, nothing left to watch.
		}
	}()

	return ctx, cancel
}

// BlockSignals defers signal-driven cancellation until the matching
// UnblockSignals. Use it around work that must not be interrupted halfway,
// such as a schema migration.
// BlockSignals/UnblockSignals calls can be nested.
func BlockSignals() {
	mu.Lock()
	defer mu.Unlock()
	blockCount++
}

// UnblockSignals releases one BlockSignals. When the last block is released,
// any cancellation that arrived in the meantime runs.
// Extra calls past zero are ignored.
func UnblockSignals() {
	mu.Lock()
	if blockCount > 0 {
		blockCount--
	}
	var run []context.CancelFunc
	if blockCount == 0 {
		run, deferred = deferred, nil
	}
	mu.Unlock()

	// Cancel outside the lock: cancel funcs may trigger callbacks that
	// call back into this package.
	for _, cancel := range run {
		cancel()
	}
}

// Blocked reports whether cancellation is currently held back.
func Blocked() bool {
	mu.Lock()
	defer mu.Unlock()
	return blockCount > 0
}
