package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestInMemoryBus_PublishSyncDeliversInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var got []int
	bus.Subscribe("lead.dropped", HandlerFunc(func(ctx context.Context, event Event) error {
		got = append(got, 1)
		return nil
	}))
	bus.Subscribe("lead.dropped", HandlerFunc(func(ctx context.Context, event Event) error {
		got = append(got, 2)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.dropped"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected handlers [1 2], got %v", got)
	}
}

func TestInMemoryBus_PublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	wantErr := errors.New("boom")
	bus.Subscribe("lead.dropped", HandlerFunc(func(ctx context.Context, event Event) error {
		return wantErr
	}))
	bus.Subscribe("lead.dropped", HandlerFunc(func(ctx context.Context, event Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "lead.dropped"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected error to wrap %v, got %v", wantErr, err)
	}
}

func TestInMemoryBus_PublishIgnoresUnknownEvent(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("call.logged", HandlerFunc(func(ctx context.Context, event Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "lead.dropped"})
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "call.logged"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscribed handler was never invoked")
	}
}

// Async handlers keep running after the publisher's request context is
// canceled, so Publish must hand them a detached context.
func TestInMemoryBus_PublishDetachesFromCancellation(t *testing.T) {
	bus := NewInMemoryBus(nil)

	handlerErr := make(chan error, 1)
	started := make(chan struct{})
	bus.Subscribe("lead.dropped", HandlerFunc(func(ctx context.Context, event Event) error {
		<-started
		handlerErr <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{NewBaseEvent(), "lead.dropped"})
	cancel()
	close(started)

	select {
	case err := <-handlerErr:
		if err != nil {
			t.Fatalf("expected handler context to survive cancellation, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected handler to run")
	}
}
