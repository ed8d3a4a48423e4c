package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/store"
)

// RevisionSource exposes the per-key write revisions of a substrate
type RevisionSource interface {
	Revisions(ctx context.Context) (map[string]store.Revision, error)
}

// Watcher is the storage-level fallback channel. It polls the substrate's
// revisions and signals every key last written by another context since the
// previous poll.
type Watcher struct {
	src      RevisionSource
	origin   string
	interval time.Duration
	subs     subscribers

	mu     sync.Mutex
	seen   map[string]int64
	primed bool
}

func NewWatcher(src RevisionSource, origin string, interval time.Duration) *Watcher {
	return &Watcher{src: src, origin: origin, interval: interval, seen: make(map[string]int64)}
}

func (w *Watcher) Subscribe(h Handler) func() {
	return w.subs.add(h)
}

// Poll compares revisions with the previous poll and dispatches changed keys.
// The first poll only records the baseline.
func (w *Watcher) Poll(ctx context.Context) error {
	revs, err := w.src.Revisions(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	var changed []string
	for key, rev := range revs {
		if prev, ok := w.seen[key]; w.primed && (!ok || prev != rev.Number) && rev.Origin != w.origin {
			changed = append(changed, key)
		}
		w.seen[key] = rev.Number
	}
	w.primed = true
	w.mu.Unlock()

	for _, key := range changed {
		slog.Debug("broadcast: storage change observed", "key", key)
		w.subs.dispatch(ctx, key)
	}
	return nil
}

// Run polls until ctx is done
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.Poll(ctx); err != nil {
		slog.Warn("broadcast: initial storage poll failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Poll(ctx); err != nil {
				slog.Warn("broadcast: storage poll failed", "error", err)
			}
		}
	}
}
