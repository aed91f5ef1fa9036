package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quorum/contexts/polling/voting-engine/application/commands"
	"quorum/contexts/polling/voting-engine/application/queries"
	httptransport "quorum/contexts/polling/voting-engine/transport/http"
)

type Handler struct {
	Votes   commands.VoteUseCase
	Results queries.ResultsUseCase
	Logger  *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	voterID string,
	organizationID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		VoterID:        voterID,
		OrganizationID: organizationID,
		Token:          req.Token,
		PollID:         req.PollID,
		ChoiceID:       req.ChoiceID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:       result.Vote.VoteID,
		PollID:       result.Vote.PollID,
		ChoiceID:     result.Vote.ChoiceID,
		IdentityKind: string(result.Vote.Kind),
		CreatedAt:    result.Vote.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) PollResultsHandler(ctx context.Context, pollID string) (httptransport.PollResultsResponse, error) {
	result, err := h.Results.PollResults(ctx, pollID)
	if err != nil {
		return httptransport.PollResultsResponse{}, err
	}
	items := make([]httptransport.ChoiceTallyItem, 0, len(result.Tallies))
	for _, tally := range result.Tallies {
		items = append(items, httptransport.ChoiceTallyItem{
			ChoiceID: tally.ChoiceID,
			Text:     tally.Text,
			Votes:    tally.Votes,
		})
	}
	return httptransport.PollResultsResponse{
		PollID:      result.PollID,
		Title:       result.Title,
		Description: result.Description,
		TotalVotes:  result.TotalVotes,
		Results:     items,
	}, nil
}
