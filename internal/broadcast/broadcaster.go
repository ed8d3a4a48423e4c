// Package broadcast carries "collection changed" signals between contexts
// that share one durable substrate. Signals carry a topic only; receivers
// reload from the store.
package broadcast

import (
	"context"
	"log/slog"
	"sync"
)

// Handler is invoked with the topic of every signal received from another context
type Handler func(ctx context.Context, topic string)

// Broadcaster publishes change topics and delivers those of other contexts.
// A context never receives its own signals.
type Broadcaster interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(h Handler) (unsubscribe func())
	Close() error
}

type subscribers struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func (s *subscribers) add(h Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = make(map[int]Handler)
	}
	id := s.next
	s.next++
	s.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) dispatch(ctx context.Context, topic string) {
	s.mu.RLock()
	hs := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		hs = append(hs, h)
	}
	s.mu.RUnlock()

	for _, h := range hs {
		h(ctx, topic)
	}
}

// Hub connects contexts living in the same process. Delivery is synchronous:
// every other member has handled the topic when Publish returns.
type Hub struct {
	mu      sync.RWMutex
	members map[string]*Local
}

func NewHub() *Hub {
	return &Hub{members: make(map[string]*Local)}
}

// Join returns the broadcaster of the context named origin
func (h *Hub) Join(origin string) *Local {
	h.mu.Lock()
	defer h.mu.Unlock()
	l := &Local{hub: h, origin: origin}
	h.members[origin] = l
	return l
}

func (h *Hub) leave(origin string) {
	h.mu.Lock()
	delete(h.members, origin)
	h.mu.Unlock()
}

func (h *Hub) deliver(ctx context.Context, from, topic string) {
	h.mu.RLock()
	targets := make([]*Local, 0, len(h.members))
	for origin, m := range h.members {
		if origin != from {
			targets = append(targets, m)
		}
	}
	h.mu.RUnlock()

	for _, m := range targets {
		m.subs.dispatch(ctx, topic)
	}
}

// Local is one context's handle on a Hub
type Local struct {
	hub    *Hub
	origin string
	subs   subscribers
}

func (l *Local) Publish(ctx context.Context, topic string) error {
	slog.Debug("broadcast: publish", "topic", topic, "origin", l.origin)
	l.hub.deliver(ctx, l.origin, topic)
	return nil
}

func (l *Local) Subscribe(h Handler) func() {
	return l.subs.add(h)
}

func (l *Local) Close() error {
	l.hub.leave(l.origin)
	return nil
}
