// Package invalidation tells every running instance that the directory
// changed, so instances that did not perform a mutation refresh too.
package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "advohub:directory:invalidate"

// Message is published after a mutation is applied.
type Message struct {
	Instance string    `json:"instance"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
}

// Bus publishes and consumes invalidation messages on one Redis channel.
// Messages published by this instance are ignored by its own subscriber.
type Bus struct {
	client   redis.UniversalClient
	channel  string
	instance string
	logger   *slog.Logger
}

type Option func(*Bus)

func WithChannel(channel string) Option {
	return func(b *Bus) {
		if channel != "" {
			b.channel = channel
		}
	}
}

func WithInstanceID(id string) Option {
	return func(b *Bus) {
		if id != "" {
			b.instance = id
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

func New(client redis.UniversalClient, opts ...Option) *Bus {
	b := &Bus{
		client:   client,
		channel:  DefaultChannel,
		instance: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Instance() string { return b.instance }

// Publish announces that the directory changed.
func (b *Bus) Publish(ctx context.Context, reason string) error {
	payload, err := json.Marshal(Message{Instance: b.instance, Reason: reason, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Subscribe calls onInvalidate for every message from another instance until
// ctx is done. It returns once the subscription is confirmed, so messages
// published after Subscribe returns are not missed.
func (b *Bus) Subscribe(ctx context.Context, onInvalidate func(ctx context.Context, reason string)) (func() error, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.handle(ctx, msg.Payload, onInvalidate)
			}
		}
	}()

	stop := func() error {
		err := sub.Close()
		<-done
		return err
	}
	return stop, nil
}

func (b *Bus) handle(ctx context.Context, payload string, onInvalidate func(context.Context, string)) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		if b.logger != nil {
			b.logger.WarnContext(ctx, "ignoring malformed invalidation", "error", err)
		}
		return
	}
	if msg.Instance == b.instance {
		return
	}
	if b.logger != nil {
		b.logger.InfoContext(ctx, "directory invalidated by peer",
			"peer", msg.Instance,
			"reason", msg.Reason,
		)
	}
	onInvalidate(ctx, msg.Reason)
}
