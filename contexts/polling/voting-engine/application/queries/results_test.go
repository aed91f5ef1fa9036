package queries_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	votingengine "quorum/contexts/polling/voting-engine"
	"quorum/contexts/polling/voting-engine/domain/entities"
	domainerrors "quorum/contexts/polling/voting-engine/domain/errors"
	"quorum/contexts/polling/voting-engine/ports"
)

func seedAccountVote(t *testing.T, module votingengine.Module, voteID string, pollID string, choiceID string, voterID string) {
	t.Helper()
	err := module.Store.AdmitVote(context.Background(), entities.Vote{
		VoteID:      voteID,
		PollID:      pollID,
		ChoiceID:    choiceID,
		IdentityKey: "account:" + voterID,
		Kind:        entities.IdentityKindAccount,
		VoterID:     voterID,
		CreatedAt:   time.Now().UTC().Add(-90 * time.Minute),
	}, ports.EventEnvelope{EventID: voteID + "-event", EventType: "vote.admitted"})
	if err != nil {
		t.Fatalf("seed vote %s failed: %v", voteID, err)
	}
}

func TestResultsHiddenWhilePollOpen(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	end := time.Now().UTC().Add(time.Hour)
	module.Store.SetPoll(entities.Poll{
		PollID:   "poll-1",
		Title:    "open poll",
		EndAt:    &end,
		IsActive: true,
	})

	_, err := module.Handler.PollResultsHandler(context.Background(), "poll-1")
	if !errors.Is(err, domainerrors.ErrResultsNotAvailable) {
		t.Fatalf("expected ErrResultsNotAvailable while open, got %v", err)
	}
}

func TestResultsHiddenWithoutEndDate(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	module.Store.SetPoll(entities.Poll{
		PollID:   "poll-1",
		Title:    "open-ended poll",
		IsActive: true,
	})

	_, err := module.Handler.PollResultsHandler(context.Background(), "poll-1")
	if !errors.Is(err, domainerrors.ErrResultsNotAvailable) {
		t.Fatalf("expected ErrResultsNotAvailable for open-ended poll, got %v", err)
	}
}

func TestResultsMissingPoll(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)

	_, err := module.Handler.PollResultsHandler(context.Background(), "missing")
	if !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected ErrPollNotFound, got %v", err)
	}
}

func TestClosedPollTallies(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)

	start := time.Now().UTC().Add(-2 * time.Hour)
	end := time.Now().UTC().Add(-time.Minute)
	module.Store.SetPoll(entities.Poll{
		PollID:      "poll-1",
		Title:       "budget vote",
		Description: "2026 budget",
		StartAt:     &start,
		EndAt:       &end,
		IsActive:    true,
	})
	module.Store.SetChoice(entities.Choice{ChoiceID: "choice-a", PollID: "poll-1", Text: "approve"})
	module.Store.SetChoice(entities.Choice{ChoiceID: "choice-b", PollID: "poll-1", Text: "reject"})
	module.Store.SetChoice(entities.Choice{ChoiceID: "choice-c", PollID: "poll-1", Text: "abstain"})

	for n := 0; n < 3; n++ {
		seedAccountVote(t, module, fmt.Sprintf("vote-a-%d", n), "poll-1", "choice-a", fmt.Sprintf("voter-a-%d", n))
	}
	seedAccountVote(t, module, "vote-b-0", "poll-1", "choice-b", "voter-b-0")

	resp, err := module.Handler.PollResultsHandler(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if resp.PollID != "poll-1" || resp.Title != "budget vote" {
		t.Fatalf("unexpected header fields: %+v", resp)
	}
	if resp.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", resp.TotalVotes)
	}

	want := map[string]int{"choice-a": 3, "choice-b": 1, "choice-c": 0}
	if len(resp.Results) != len(want) {
		t.Fatalf("expected %d tally rows, got %d", len(want), len(resp.Results))
	}
	for _, row := range resp.Results {
		if row.Votes != want[row.ChoiceID] {
			t.Fatalf("choice %s: expected %d votes, got %d", row.ChoiceID, want[row.ChoiceID], row.Votes)
		}
	}
}

func TestDeactivatedPollWithPastEndStillReportsResults(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	end := time.Now().UTC().Add(-time.Hour)
	module.Store.SetPoll(entities.Poll{
		PollID:   "poll-1",
		Title:    "archived poll",
		EndAt:    &end,
		IsActive: false,
	})
	module.Store.SetChoice(entities.Choice{ChoiceID: "choice-a", PollID: "poll-1", Text: "yes"})

	resp, err := module.Handler.PollResultsHandler(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if resp.TotalVotes != 0 || len(resp.Results) != 1 {
		t.Fatalf("unexpected results: %+v", resp)
	}
}
