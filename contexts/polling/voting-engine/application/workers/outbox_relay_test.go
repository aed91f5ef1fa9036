package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/contexts/polling/voting-engine/adapters/memory"
	"quorum/contexts/polling/voting-engine/application/workers"
	"quorum/contexts/polling/voting-engine/domain/entities"
	"quorum/contexts/polling/voting-engine/ports"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail != nil {
		return p.fail
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func admitTestVote(t *testing.T, store *memory.Store, voteID string, voterID string) {
	t.Helper()
	err := store.AdmitVote(context.Background(), entities.Vote{
		VoteID:      voteID,
		PollID:      "poll-1",
		ChoiceID:    "choice-a",
		IdentityKey: "account:" + voterID,
		Kind:        entities.IdentityKindAccount,
		VoterID:     voterID,
		CreatedAt:   time.Now().UTC(),
	}, ports.EventEnvelope{
		EventID:      voteID + "-event",
		EventType:    "vote.admitted",
		OccurredAt:   time.Now().UTC(),
		PartitionKey: "poll-1",
	})
	if err != nil {
		t.Fatalf("admit %s failed: %v", voteID, err)
	}
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	store := memory.NewStore(nil)
	admitTestVote(t, store, "vote-1", "voter-1")
	admitTestVote(t, store, "vote-2", "voter-2")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	for _, topic := range publisher.topics {
		if topic != "vote.admitted" {
			t.Fatalf("expected vote.admitted topic, got %s", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected acked outbox, got %d pending rows", len(pending))
	}
}

func TestOutboxRelayKeepsRowOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	admitTestVote(t, store, "vote-1", "voter-1")

	brokerErr := errors.New("broker unavailable")
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: &capturingPublisher{fail: brokerErr},
		Clock:     store,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must leave the row pending, got %d", len(pending))
	}

	publisher := &capturingPublisher{}
	relay.Publisher = publisher
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected retry to publish the pending row, got %d events", len(publisher.events))
	}
}

func TestOutboxRelayNoPendingIsNoop(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("noop run failed: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no publishes, got %d", len(publisher.events))
	}
}
