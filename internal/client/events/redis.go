package events

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "chatdesk:events"

// RedisBus relays notifications between consoles through a Redis channel.
// Local subscribers are served by an embedded LocalBus; every Publish is
// delivered locally at once and sent to Redis tagged with this bus's
// origin id, so the relay loop can drop its own echo.
type RedisBus struct {
	local   *LocalBus
	client  *redis.Client
	channel string
	origin  string
	log     logging.Logger

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRedisBus(client *redis.Client, channel string, log logging.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBus{
		local:   NewLocalBus(),
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start subscribes to the Redis channel and relays remote notifications
// until ctx is cancelled or Close is called. It returns once the
// subscription is confirmed.
func (b *RedisBus) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		b.cancel()
		close(b.done)
		return err
	}

	go func() {
		defer close(b.done)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.relay(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

func (b *RedisBus) relay(ctx context.Context, payload string) {
	origin, name, ok := strings.Cut(payload, "|")
	if !ok {
		b.log.Warn(ctx, "malformed bus message", "payload", payload)
		return
	}
	if origin == b.origin {
		return
	}
	t, ok := ParseTopic(name)
	if !ok {
		b.log.Warn(ctx, "unknown topic on bus", "topic", name)
		return
	}
	b.local.Publish(ctx, t)
}

func (b *RedisBus) Publish(ctx context.Context, t Topic) {
	b.local.Publish(ctx, t)
	if err := b.client.Publish(ctx, b.channel, b.origin+"|"+t.String()).Err(); err != nil {
		b.log.Error(ctx, "publish to redis failed", "topic", t.String(), "error", err)
	}
}

func (b *RedisBus) Subscribe(t Topic) (<-chan Topic, func()) {
	return b.local.Subscribe(t)
}

// Close stops the relay loop and waits for it to exit.
func (b *RedisBus) Close() error {
	b.once.Do(func() {
		if b.cancel != nil {
			b.cancel()
			<-b.done
		}
	})
	return nil
}
