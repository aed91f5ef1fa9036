package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "quorum/contexts/polling/voting-engine/application"
	"quorum/contexts/polling/voting-engine/ports"
)

const (
	admittedTopic         = "vote.admitted"
	admittedConsumerGroup = "voting-engine-audit"
)

// AdmittedVoteConsumer tails the admitted-vote stream and writes the audit
// trail. Downstream projections hang off the same topic.
type AdmittedVoteConsumer struct {
	Subscriber ports.EventSubscriber
	Logger     *slog.Logger
}

// Start registers the consumer. The subscription lives until ctx is done.
func (c AdmittedVoteConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	return c.Subscriber.Subscribe(ctx, admittedTopic, admittedConsumerGroup,
		func(_ context.Context, event ports.EventEnvelope) error {
			var data struct {
				VoteID       string `json:"vote_id"`
				PollID       string `json:"poll_id"`
				ChoiceID     string `json:"choice_id"`
				IdentityKind string `json:"identity_kind"`
			}
			if err := json.Unmarshal(event.Data, &data); err != nil {
				logger.Error("admitted vote event decode failed",
					"event", "voting_admitted_decode_failed",
					"module", "polling/voting-engine",
					"layer", "worker",
					"event_id", event.EventID,
					"error", err.Error(),
				)
				return err
			}
			logger.Info("admitted vote observed",
				"event", "voting_admitted_observed",
				"module", "polling/voting-engine",
				"layer", "worker",
				"event_id", event.EventID,
				"vote_id", data.VoteID,
				"poll_id", data.PollID,
				"choice_id", data.ChoiceID,
				"identity_kind", data.IdentityKind,
			)
			return nil
		})
}
