// Package redis provides an event bus backed by Redis pub/sub so
// notification nudges reach subscribers on every server instance.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gradus/internal/config"
	"gradus/internal/port"
)

const subscriberBuffer = 16

// Bus is a Redis-backed implementation of port.EventBus. Each subject
// maps to one Redis pub/sub channel.
type Bus struct {
	rdb *redis.Client
}

// NewBus connects to Redis and verifies the connection.
func NewBus(cfg config.RedisConfig) (*Bus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Bus{rdb: rdb}, nil
}

// Publish sends the event payload on its subject's channel.
func (b *Bus) Publish(ctx context.Context, event port.Event) error {
	if err := b.rdb.Publish(ctx, event.Subject, []byte(event.Payload)).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", event.Subject, err)
	}
	return nil
}

// Subscribe opens a Redis subscription on the subject and forwards
// messages until unsubscribed. A slow consumer drops events instead of
// stalling the forwarder.
func (b *Bus) Subscribe(ctx context.Context, subject string) (<-chan port.Event, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, subject)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	out := make(chan port.Event, subscriberBuffer)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			event := port.Event{
				Subject: msg.Channel,
				Payload: json.RawMessage(msg.Payload),
			}
			select {
			case out <- event:
			default:
			}
		}
	}()

	unsub := func() {
		pubsub.Close()
	}
	return out, unsub, nil
}

// Close releases the underlying client.
func (b *Bus) Close() error {
	return b.rdb.Close()
}
