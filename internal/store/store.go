package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxValueBytes mirrors the per-origin quota of browser local storage.
const DefaultMaxValueBytes = 5 << 20

// Publisher receives a change signal after every successful write.
type Publisher interface {
	Publish(ctx context.Context, topic string) error
}

// Store is the typed adapter over a Substrate. Loads never fail; saves
// report a *SaveError and notify the Publisher only after the write landed.
type Store struct {
	substrate     Substrate
	publisher     Publisher
	origin        string
	maxValueBytes int
	tracer        trace.Tracer
}

type Option func(*Store)

// WithPublisher sets the publisher notified after each successful save
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithMaxValueBytes caps the serialized size of a single value
func WithMaxValueBytes(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxValueBytes = n
		}
	}
}

// New creates a Store writing to sub on behalf of the context named origin
func New(sub Substrate, origin string, opts ...Option) *Store {
	s := &Store{
		substrate:     sub,
		origin:        origin,
		maxValueBytes: DefaultMaxValueBytes,
		tracer:        otel.Tracer("nexus/store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Origin is the id of the context this store writes for
func (s *Store) Origin() string {
	return s.origin
}

// Load decodes the value under key into a T. Absent, unreadable or
// malformed records yield fallback.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	ctx, span := s.tracer.Start(ctx, "store.load", trace.WithAttributes(attribute.String("store.key", key)))
	defer span.End()

	raw, err := s.substrate.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			slog.Warn("store: load failed, using fallback", "key", key, "error", err)
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		span.RecordError(err)
		slog.Warn("store: malformed record, using fallback", "key", key, "error", err)
		return fallback
	}
	return value
}

// Save serializes value and writes it under key. On success the key is
// published as a topic. Publish failures are logged, not returned, since
// the durable copy is already current.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	ctx, span := s.tracer.Start(ctx, "store.save", trace.WithAttributes(attribute.String("store.key", key)))
	defer span.End()

	raw, err := json.Marshal(value)
	if err != nil {
		return s.fail(span, newSaveError(key, ReasonSerialization, err))
	}
	if len(raw) > s.maxValueBytes {
		return s.fail(span, newSaveError(key, ReasonQuotaExceeded, nil))
	}

	if err := s.substrate.Set(ctx, key, raw, s.origin); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return s.fail(span, newSaveError(key, ReasonQuotaExceeded, err))
		}
		return s.fail(span, newSaveError(key, ReasonWrite, err))
	}
	span.SetAttributes(attribute.Int("store.bytes", len(raw)))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, key); err != nil {
			slog.Warn("store: publish failed", "key", key, "error", err)
		}
	}
	return nil
}

func (s *Store) fail(span trace.Span, err *SaveError) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Reason))
	slog.Warn("store: save failed", "key", err.Key, "reason", err.Reason, "error", err.Err)
	return err
}
