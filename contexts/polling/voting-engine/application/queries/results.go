package queries

import (
	"context"
	"strings"
	"time"

	"quorum/contexts/polling/voting-engine/domain/entities"
	domainerrors "quorum/contexts/polling/voting-engine/domain/errors"
	"quorum/contexts/polling/voting-engine/ports"
)

// ResultsUseCase is the read side: per-choice tallies over admitted votes,
// recomputed per request. Admission is all-or-nothing, so no pending or
// partial votes exist to filter.
type ResultsUseCase struct {
	Polls ports.PollProjection
	Votes ports.VoteRepository
	Clock ports.Clock
}

// PollResults returns the tally once the poll's closing condition holds:
// end_at set and passed. Open-ended polls never expose results through this
// path.
func (uc ResultsUseCase) PollResults(ctx context.Context, pollID string) (entities.PollResult, error) {
	poll, err := uc.Polls.GetPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return entities.PollResult{}, err
	}
	if !poll.ResultsVisible(uc.now()) {
		return entities.PollResult{}, domainerrors.ErrResultsNotAvailable
	}

	choices, err := uc.Polls.ListChoicesByPoll(ctx, poll.PollID)
	if err != nil {
		return entities.PollResult{}, err
	}
	counts, err := uc.Votes.CountVotesByChoice(ctx, poll.PollID)
	if err != nil {
		return entities.PollResult{}, err
	}

	result := entities.PollResult{
		PollID:      poll.PollID,
		Title:       poll.Title,
		Description: poll.Description,
		Tallies:     make([]entities.ChoiceTally, 0, len(choices)),
	}
	for _, choice := range choices {
		votes := counts[choice.ChoiceID]
		result.TotalVotes += votes
		result.Tallies = append(result.Tallies, entities.ChoiceTally{
			ChoiceID: choice.ChoiceID,
			Text:     choice.Text,
			Votes:    votes,
		})
	}
	return result, nil
}

func (uc ResultsUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
