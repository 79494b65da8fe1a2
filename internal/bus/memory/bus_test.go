package memory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gradus/internal/bus/memory"
	"gradus/internal/port"
)

func event(subject string) port.Event {
	return port.Event{Subject: subject, Payload: json.RawMessage(`{"action":"badges_changed"}`)}
}

func TestBus_PublishReachesSubscriber(t *testing.T) {
	bus := memory.NewBus()
	defer bus.Close()

	ch, unsub, err := bus.Subscribe(context.Background(), "notify.user.a")
	assert.NoError(t, err)
	defer unsub()

	assert.NoError(t, bus.Publish(context.Background(), event("notify.user.a")))

	select {
	case got := <-ch:
		assert.Equal(t, "notify.user.a", got.Subject)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestBus_SubjectsAreIsolated(t *testing.T) {
	bus := memory.NewBus()
	defer bus.Close()

	chA, unsubA, _ := bus.Subscribe(context.Background(), "notify.user.a")
	chB, unsubB, _ := bus.Subscribe(context.Background(), "notify.user.b")
	defer unsubA()
	defer unsubB()

	assert.NoError(t, bus.Publish(context.Background(), event("notify.user.b")))

	select {
	case <-chB:
	case <-time.After(time.Second):
		t.Fatal("subscriber on the published subject got nothing")
	}
	select {
	case e := <-chA:
		t.Fatalf("subject a received %s", e.Subject)
	default:
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := memory.NewBus()
	defer bus.Close()

	ch, unsub, _ := bus.Subscribe(context.Background(), "notify.user.a")
	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	assert.NoError(t, bus.Publish(context.Background(), event("notify.user.a")))
}

func TestBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := memory.NewBus()
	defer bus.Close()

	_, unsub, _ := bus.Subscribe(context.Background(), "notify.user.a")
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(context.Background(), event("notify.user.a"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestBus_CloseClosesSubscribers(t *testing.T) {
	bus := memory.NewBus()

	ch, unsub, _ := bus.Subscribe(context.Background(), "notify.user.a")
	assert.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open)

	unsub()
	assert.NoError(t, bus.Close())
}
