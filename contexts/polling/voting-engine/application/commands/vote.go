package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/polling/voting-engine/application"
	"quorum/contexts/polling/voting-engine/domain/entities"
	domainerrors "quorum/contexts/polling/voting-engine/domain/errors"
	"quorum/contexts/polling/voting-engine/ports"
)

// CastVoteCommand is the write-model input for vote admission. Exactly one
// credential variant must be supplied: a voter account asserted by upstream
// auth, or a single-use vote link token.
type CastVoteCommand struct {
	VoterID        string
	OrganizationID string
	Token          string
	PollID         string
	ChoiceID       string
}

// CastVoteResult returns the admitted vote the transport layer maps to the
// 201 representation.
type CastVoteResult struct {
	Vote entities.Vote
}

// VoteUseCase orchestrates the admission path: credential resolution,
// eligibility gate, choice containment, and the atomic admission
// transaction. It is the only write path for votes.
type VoteUseCase struct {
	Polls  ports.PollProjection
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CastVote admits at most one vote per (poll, identity). Validation steps
// fail fast without side effects; the vote link is consumed only inside the
// admission transaction so a failed later check never burns a token.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote admission started",
		"event", "voting_cast_started",
		"module", "polling/voting-engine",
		"layer", "application",
		"poll_id", strings.TrimSpace(cmd.PollID),
		"choice_id", strings.TrimSpace(cmd.ChoiceID),
		"credential", credentialKind(cmd),
	)

	if strings.TrimSpace(cmd.ChoiceID) == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if strings.TrimSpace(cmd.Token) == "" && strings.TrimSpace(cmd.VoterID) == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	now := uc.now()

	identity, pollID, err := uc.resolveIdentity(ctx, cmd)
	if err != nil {
		logger.Warn("credential resolution failed",
			"event", "voting_cast_credential_failed",
			"module", "polling/voting-engine",
			"layer", "application",
			"credential", credentialKind(cmd),
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	poll, err := uc.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return CastVoteResult{}, err
	}

	if identity.OrganizationID != "" && !strings.EqualFold(identity.OrganizationID, poll.OrganizationID) {
		logger.Warn("cross-organization vote rejected",
			"event", "voting_cast_forbidden",
			"module", "polling/voting-engine",
			"layer", "application",
			"poll_id", poll.PollID,
			"identity_org", identity.OrganizationID,
			"poll_org", poll.OrganizationID,
		)
		return CastVoteResult{}, domainerrors.ErrForbidden
	}

	if !poll.IsVotable(now) {
		logger.Info("vote rejected outside admission window",
			"event", "voting_cast_poll_closed",
			"module", "polling/voting-engine",
			"layer", "application",
			"poll_id", poll.PollID,
			"reason", poll.ClosedReason(now),
		)
		return CastVoteResult{}, domainerrors.ErrPollClosed
	}

	choice, err := uc.Polls.GetChoice(ctx, strings.TrimSpace(cmd.ChoiceID))
	if err != nil {
		if errors.Is(err, domainerrors.ErrChoiceNotFound) {
			return CastVoteResult{}, domainerrors.ErrInvalidChoice
		}
		return CastVoteResult{}, err
	}
	if !strings.EqualFold(choice.PollID, poll.PollID) {
		logger.Warn("choice from another poll rejected",
			"event", "voting_cast_invalid_choice",
			"module", "polling/voting-engine",
			"layer", "application",
			"poll_id", poll.PollID,
			"choice_id", choice.ChoiceID,
			"choice_poll_id", choice.PollID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidChoice
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.Vote{
		VoteID:      voteID,
		PollID:      poll.PollID,
		ChoiceID:    choice.ChoiceID,
		IdentityKey: identity.Key(),
		Kind:        identity.Kind,
		VoterID:     identity.VoterID,
		LinkToken:   identity.Token,
		CreatedAt:   now,
	}

	envelope, err := uc.admittedEnvelope(ctx, vote, now)
	if err != nil {
		return CastVoteResult{}, err
	}

	if err := uc.Votes.AdmitVote(ctx, vote, envelope); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) && identity.Kind == entities.IdentityKindLink {
			// Admission-time races on a link look the same to callers as a
			// link burned before resolution.
			err = domainerrors.ErrVoteLinkUsed
		}
		if errors.Is(err, domainerrors.ErrAlreadyVoted) || errors.Is(err, domainerrors.ErrVoteLinkUsed) {
			logger.Info("duplicate vote rejected",
				"event", "voting_cast_duplicate",
				"module", "polling/voting-engine",
				"layer", "application",
				"poll_id", poll.PollID,
				"identity_key", vote.IdentityKey,
			)
			return CastVoteResult{}, err
		}
		logger.Error("vote admission failed",
			"event", "voting_cast_admission_failed",
			"module", "polling/voting-engine",
			"layer", "application",
			"poll_id", poll.PollID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	logger.Info("vote admitted",
		"event", "voting_cast_admitted",
		"module", "polling/voting-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"poll_id", vote.PollID,
		"choice_id", vote.ChoiceID,
		"identity_kind", string(vote.Kind),
	)
	return CastVoteResult{Vote: vote}, nil
}

// resolveIdentity turns the raw credential into exactly one voting identity
// and the target poll. Token credentials bind the vote to the link's own
// poll, overriding any caller-supplied poll id.
func (uc VoteUseCase) resolveIdentity(
	ctx context.Context,
	cmd CastVoteCommand,
) (entities.VotingIdentity, string, error) {
	if token := strings.TrimSpace(cmd.Token); token != "" {
		link, err := uc.Polls.GetVoteLink(ctx, token)
		if err != nil {
			return entities.VotingIdentity{}, "", err
		}
		if link.Used {
			return entities.VotingIdentity{}, "", domainerrors.ErrVoteLinkUsed
		}
		return entities.VotingIdentity{
			Kind:  entities.IdentityKindLink,
			Token: link.Token,
		}, link.PollID, nil
	}

	pollID := strings.TrimSpace(cmd.PollID)
	if pollID == "" {
		return entities.VotingIdentity{}, "", domainerrors.ErrInvalidVoteInput
	}
	return entities.VotingIdentity{
		Kind:           entities.IdentityKindAccount,
		VoterID:        strings.TrimSpace(cmd.VoterID),
		OrganizationID: strings.TrimSpace(cmd.OrganizationID),
	}, pollID, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func credentialKind(cmd CastVoteCommand) string {
	if strings.TrimSpace(cmd.Token) != "" {
		return string(entities.IdentityKindLink)
	}
	return string(entities.IdentityKindAccount)
}
