package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	natsSubjectPrefix = "nexus.changes."
	originHeader      = "Nexus-Origin"
)

// NATS broadcasts topics on nexus.changes.<topic>. The publishing context
// and the trace context travel in message headers.
type NATS struct {
	nc     *nats.Conn
	origin string
	sub    *nats.Subscription
	subs   subscribers
}

// NewNATS subscribes to every change subject on nc
func NewNATS(nc *nats.Conn, origin string) (*NATS, error) {
	b := &NATS{nc: nc, origin: origin}
	sub, err := nc.Subscribe(natsSubjectPrefix+">", b.handle)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s>: %w", natsSubjectPrefix, err)
	}
	b.sub = sub
	return b, nil
}

func (b *NATS) Publish(ctx context.Context, topic string) error {
	msg := &nats.Msg{
		Subject: natsSubjectPrefix + topic,
		Header:  nats.Header{},
	}
	msg.Header.Set(originHeader, b.origin)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("broadcast: publishing change", "subject", msg.Subject)
	return b.nc.PublishMsg(msg)
}

func (b *NATS) handle(msg *nats.Msg) {
	if msg.Header.Get(originHeader) == b.origin {
		return
	}
	topic := strings.TrimPrefix(msg.Subject, natsSubjectPrefix)

	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))
	ctx, span := otel.Tracer("nexus/broadcast").Start(ctx, "broadcast.receive",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("broadcast.topic", topic)),
	)
	defer span.End()

	slog.Debug("broadcast: change received", "topic", topic, "from", msg.Header.Get(originHeader))
	b.subs.dispatch(ctx, topic)
}

func (b *NATS) Subscribe(h Handler) func() {
	return b.subs.add(h)
}

func (b *NATS) Close() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Unsubscribe()
}
