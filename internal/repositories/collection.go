package repositories

import (
	"context"
	"sync"

	"github.com/anonto42/nexus-social/backend/internal/store"
)

// Cell is the in-memory snapshot of one store key. Put writes through to
// the store; Hydrate replaces the snapshot wholesale from the durable copy.
type Cell[T any] struct {
	key       string
	store     *store.Store
	seed      func() T
	normalize func(T) T
	changes   *changeFeed

	// writeMu orders Puts to this key. Hydrate never takes it: a Put
	// publishes to other contexts, whose Hydrate runs on this goroutine.
	writeMu sync.Mutex
	mu      sync.RWMutex
	value   T
}

func newCell[T any](key string, st *store.Store, changes *changeFeed, seed func() T, normalize func(T) T) *Cell[T] {
	c := &Cell[T]{key: key, store: st, seed: seed, normalize: normalize, changes: changes}
	c.value = seed()
	return c
}

func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current snapshot
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Hydrate loads the durable value, falling back to the seed when absent or malformed
func (c *Cell[T]) Hydrate(ctx context.Context) {
	v := store.Load(ctx, c.store, c.key, c.seed())
	if c.normalize != nil {
		v = c.normalize(v)
	}
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	c.changes.emit(c.key)
}

// Put replaces the snapshot and writes it through. The snapshot is updated
// even when the write fails; the returned error is a *store.SaveError.
// Readers see v before the write lands.
func (c *Cell[T]) Put(ctx context.Context, v T) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	err := c.store.Save(ctx, c.key, v)

	c.changes.emit(c.key)
	return err
}

// Collection is a Cell holding a JSON array of entities
type Collection[T any] struct {
	*Cell[[]T]
}

func newCollection[T any](key string, st *store.Store, changes *changeFeed, seed []T, normalize func(T) T) Collection[T] {
	seedFn := func() []T {
		out := make([]T, len(seed))
		copy(out, seed)
		return out
	}
	var norm func([]T) []T
	if normalize != nil {
		norm = func(items []T) []T {
			out := make([]T, len(items))
			for i, it := range items {
				out[i] = normalize(it)
			}
			return out
		}
	}
	return Collection[T]{Cell: newCell(key, st, changes, seedFn, norm)}
}

// All returns a copy of the snapshot slice
func (c Collection[T]) All() []T {
	items := c.Get()
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Find returns the first item matching pred
func (c Collection[T]) Find(pred func(T) bool) (T, bool) {
	for _, it := range c.Get() {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns every item matching pred, in snapshot order
func (c Collection[T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, it := range c.Get() {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

type changeFeed struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]func(key string)
}

func (f *changeFeed) subscribe(fn func(key string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = make(map[int]func(string))
	}
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *changeFeed) emit(key string) {
	f.mu.RLock()
	fns := make([]func(string), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()
	for _, fn := range fns {
		fn(key)
	}
}
