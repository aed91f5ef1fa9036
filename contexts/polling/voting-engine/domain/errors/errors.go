package errors

import "errors"

var (
	ErrInvalidVoteInput    = errors.New("invalid vote input")
	ErrPollNotFound        = errors.New("poll not found")
	ErrChoiceNotFound      = errors.New("choice not found")
	ErrInvalidChoice       = errors.New("choice does not belong to the target poll")
	ErrVoteLinkNotFound    = errors.New("vote link not found")
	ErrVoteLinkUsed        = errors.New("vote link has already been used")
	ErrAlreadyVoted        = errors.New("identity has already voted in this poll")
	ErrForbidden           = errors.New("identity cannot vote on this poll")
	ErrPollClosed          = errors.New("poll is not currently accepting votes")
	ErrResultsNotAvailable = errors.New("poll results are not available yet")
	ErrVoteNotFound        = errors.New("vote not found")
	ErrConflict            = errors.New("vote conflict")
)
