package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"quorum/contexts/polling/voting-engine/domain/entities"
	domainerrors "quorum/contexts/polling/voting-engine/domain/errors"
	"quorum/contexts/polling/voting-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store implements every engine port in memory. Admission holds the write
// lock end to end, so concurrent duplicates serialize exactly as the
// database constraint does.
type Store struct {
	mu sync.RWMutex

	polls     map[string]entities.Poll
	choices   map[string]entities.Choice
	voteLinks map[string]entities.VoteLink
	votes     map[string]entities.Vote
	admitted  map[string]string // (poll_id + "/" + identity_key) -> vote_id
	outbox    map[string]outboxRecord
}

func NewStore(seed []entities.Vote) *Store {
	s := &Store{
		polls:     make(map[string]entities.Poll),
		choices:   make(map[string]entities.Choice),
		voteLinks: make(map[string]entities.VoteLink),
		votes:     make(map[string]entities.Vote, len(seed)),
		admitted:  make(map[string]string, len(seed)),
		outbox:    make(map[string]outboxRecord),
	}
	for _, vote := range seed {
		s.votes[vote.VoteID] = vote
		s.admitted[admissionKey(vote.PollID, vote.IdentityKey)] = vote.VoteID
	}
	return s
}

func (s *Store) SetPoll(poll entities.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[strings.TrimSpace(poll.PollID)] = poll
}

func (s *Store) SetChoice(choice entities.Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices[strings.TrimSpace(choice.ChoiceID)] = choice
}

func (s *Store) SetVoteLink(link entities.VoteLink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voteLinks[strings.TrimSpace(link.Token)] = link
}

func (s *Store) GetPoll(_ context.Context, pollID string) (entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[strings.TrimSpace(pollID)]
	if !ok {
		return entities.Poll{}, domainerrors.ErrPollNotFound
	}
	return poll, nil
}

func (s *Store) GetChoice(_ context.Context, choiceID string) (entities.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	choice, ok := s.choices[strings.TrimSpace(choiceID)]
	if !ok {
		return entities.Choice{}, domainerrors.ErrChoiceNotFound
	}
	return choice, nil
}

func (s *Store) ListChoicesByPoll(_ context.Context, pollID string) ([]entities.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Choice, 0)
	for _, choice := range s.choices {
		if choice.PollID == strings.TrimSpace(pollID) {
			items = append(items, choice)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ChoiceID < items[j].ChoiceID
	})
	return items, nil
}

func (s *Store) GetVoteLink(_ context.Context, token string) (entities.VoteLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.voteLinks[strings.TrimSpace(token)]
	if !ok {
		return entities.VoteLink{}, domainerrors.ErrVoteLinkNotFound
	}
	return link, nil
}

func (s *Store) AdmitVote(_ context.Context, vote entities.Vote, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := admissionKey(vote.PollID, vote.IdentityKey)
	if _, exists := s.admitted[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}

	if vote.Kind == entities.IdentityKindLink {
		link, ok := s.voteLinks[vote.LinkToken]
		if !ok {
			return domainerrors.ErrVoteLinkNotFound
		}
		if link.Used {
			return domainerrors.ErrVoteLinkUsed
		}
		usedAt := vote.CreatedAt.UTC()
		link.Used = true
		link.UsedAt = &usedAt
		s.voteLinks[vote.LinkToken] = link
	}

	s.votes[vote.VoteID] = vote
	s.admitted[key] = vote.VoteID
	s.appendOutboxLocked(event)
	return nil
}

func (s *Store) GetVote(_ context.Context, voteID string) (entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.Vote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

func (s *Store) ListVotesByPoll(_ context.Context, pollID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.PollID == strings.TrimSpace(pollID) {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CountVotesByChoice(_ context.Context, pollID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, vote := range s.votes {
		if vote.PollID == strings.TrimSpace(pollID) {
			counts[vote.ChoiceID]++
		}
	}
	return counts, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutboxLocked(event ports.EventEnvelope) {
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	outboxID := strings.TrimSpace(event.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := event.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(event.EventType),
			PartitionKey: strings.TrimSpace(event.PartitionKey),
			Payload:      raw,
			CreatedAt:    createdAt,
		},
	}
}

func admissionKey(pollID string, identityKey string) string {
	return pollID + "/" + identityKey
}

var _ ports.PollProjection = (*Store)(nil)
var _ ports.VoteRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
