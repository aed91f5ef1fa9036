package commands

import (
	"context"
	"encoding/json"
	"time"

	"quorum/contexts/polling/voting-engine/domain/entities"
	"quorum/contexts/polling/voting-engine/ports"
)

// admittedEnvelope builds the vote.admitted event persisted with the
// admission transaction. Events are partitioned by poll for stable ordering
// on poll-scoped consumers.
func (uc VoteUseCase) admittedEnvelope(
	ctx context.Context,
	vote entities.Vote,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(map[string]any{
		"vote_id":       vote.VoteID,
		"poll_id":       vote.PollID,
		"choice_id":     vote.ChoiceID,
		"identity_kind": string(vote.Kind),
		"occurred_at":   occurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "vote.admitted",
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "poll_id",
		PartitionKey:     vote.PollID,
		Data:             payload,
	}, nil
}
