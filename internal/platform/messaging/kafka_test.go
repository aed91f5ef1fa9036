package messaging_test

import (
	"context"
	"testing"
	"time"

	"quorum/contexts/polling/voting-engine/ports"
	"quorum/internal/platform/messaging"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "vote.admitted", "test-group", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	want := ports.EventEnvelope{EventID: "event-1", EventType: "vote.admitted", PartitionKey: "poll-1"}
	if err := bus.Publish(ctx, "vote.admitted", want); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != want.EventID || got.PartitionKey != want.PartitionKey {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	if err := bus.Publish(context.Background(), "vote.admitted", ports.EventEnvelope{EventID: "event-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "vote.admitted", "test-group", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "other.topic", ports.EventEnvelope{EventID: "event-x"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("subscriber on another topic received %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
