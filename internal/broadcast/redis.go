package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisChannel = "nexus:changes"

// Redis broadcasts topics over one pub/sub channel. Payloads are
// "<origin>|<topic>".
type Redis struct {
	rdb    *redis.Client
	origin string
	pubsub *redis.PubSub
	subs   subscribers
	done   chan struct{}
}

// NewRedis subscribes to the change channel and starts the receive loop
func NewRedis(ctx context.Context, rdb *redis.Client, origin string) (*Redis, error) {
	ps := rdb.Subscribe(ctx, redisChannel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", redisChannel, err)
	}
	b := &Redis{rdb: rdb, origin: origin, pubsub: ps, done: make(chan struct{})}
	go b.loop(ps.Channel())
	return b, nil
}

func (b *Redis) Publish(ctx context.Context, topic string) error {
	return b.rdb.Publish(ctx, redisChannel, b.origin+"|"+topic).Err()
}

func (b *Redis) loop(ch <-chan *redis.Message) {
	defer close(b.done)
	for msg := range ch {
		origin, topic, ok := strings.Cut(msg.Payload, "|")
		if !ok {
			slog.Warn("broadcast: malformed redis payload", "payload", msg.Payload)
			continue
		}
		if origin == b.origin {
			continue
		}
		slog.Debug("broadcast: change received", "topic", topic, "from", origin)
		b.subs.dispatch(context.Background(), topic)
	}
}

func (b *Redis) Subscribe(h Handler) func() {
	return b.subs.add(h)
}

func (b *Redis) Close() error {
	err := b.pubsub.Close()
	<-b.done
	return err
}
