package ports

import (
	"context"
	"time"

	contractsv1 "quorum/contracts/gen/events/v1"
	"quorum/contexts/polling/voting-engine/domain/entities"
)

// PollProjection gives the engine read access to poll/choice/link records
// owned by the admin CRUD and invitation collaborators.
type PollProjection interface {
	GetPoll(ctx context.Context, pollID string) (entities.Poll, error)
	GetChoice(ctx context.Context, choiceID string) (entities.Choice, error)
	ListChoicesByPoll(ctx context.Context, pollID string) ([]entities.Choice, error)
	GetVoteLink(ctx context.Context, token string) (entities.VoteLink, error)
}

// VoteRepository owns vote persistence and the admission transaction
// boundary.
type VoteRepository interface {
	// AdmitVote must atomically insert the vote keyed by the storage-level
	// unique constraint on (poll_id, identity_key), consume the vote link
	// for link identities, and append the event to the outbox. A constraint
	// conflict maps to domain errors, not a failure of the store layer.
	AdmitVote(ctx context.Context, vote entities.Vote, event EventEnvelope) error
	GetVote(ctx context.Context, voteID string) (entities.Vote, error)
	ListVotesByPoll(ctx context.Context, pollID string) ([]entities.Vote, error)
	CountVotesByChoice(ctx context.Context, pollID string) (map[string]int, error)
}

// Clock allows deterministic testing of window and visibility rules.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts vote/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
