// Package memory provides a process-local event bus for single-node
// deployments and tests.
package memory

import (
	"context"
	"sync"

	"gradus/internal/port"
)

const subscriberBuffer = 16

// Bus is an in-process implementation of port.EventBus. Delivery is
// best-effort: a subscriber that falls behind its buffer drops events
// rather than blocking publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan port.Event
	nextID int
	closed bool
}

// NewBus creates an empty in-process bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan port.Event)}
}

// Publish delivers the event to every current subscriber of its
// subject.
func (b *Bus) Publish(_ context.Context, event port.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subs[event.Subject] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a channel on the subject. The returned func
// removes the subscription and closes the channel; calling it more than
// once is safe.
func (b *Bus) Subscribe(_ context.Context, subject string) (<-chan port.Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan port.Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := b.nextID
	b.nextID++
	if b.subs[subject] == nil {
		b.subs[subject] = make(map[int]chan port.Event)
	}
	b.subs[subject][id] = ch

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if chans, ok := b.subs[subject]; ok {
				if _, live := chans[id]; live {
					delete(chans, id)
					close(ch)
				}
				if len(chans) == 0 {
					delete(b.subs, subject)
				}
			}
		})
	}
	return ch, unsub, nil
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = make(map[string]map[int]chan port.Event)
	return nil
}
