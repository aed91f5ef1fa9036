package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/polling/voting-engine/domain/entities"
	domainerrors "quorum/contexts/polling/voting-engine/domain/errors"
	"quorum/contexts/polling/voting-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetPoll(ctx context.Context, pollID string) (entities.Poll, error) {
	var row pollModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(pollID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Poll{}, domainerrors.ErrPollNotFound
		}
		return entities.Poll{}, r.logError("voting_repo_get_poll_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetChoice(ctx context.Context, choiceID string) (entities.Choice, error) {
	var row choiceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(choiceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Choice{}, domainerrors.ErrChoiceNotFound
		}
		return entities.Choice{}, r.logError("voting_repo_get_choice_failed", err, "choice_id", strings.TrimSpace(choiceID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListChoicesByPoll(ctx context.Context, pollID string) ([]entities.Choice, error) {
	var rows []choiceModel
	if err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_choices_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	items := make([]entities.Choice, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVoteLink(ctx context.Context, token string) (entities.VoteLink, error) {
	var row voteLinkModel
	err := r.db.WithContext(ctx).
		Where("token = ?", strings.TrimSpace(token)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteLink{}, domainerrors.ErrVoteLinkNotFound
		}
		return entities.VoteLink{}, r.logError("voting_repo_get_vote_link_failed", err)
	}
	return row.toEntity(), nil
}

// AdmitVote is the admission transaction. The vote insert is keyed by the
// unique constraint on (poll_id, identity_key); a constraint conflict means
// the identity already has a vote for this poll and is an expected branch,
// not a store failure. The vote insert, link consumption, and outbox append
// commit or roll back together.
func (r *Repository) AdmitVote(ctx context.Context, vote entities.Vote, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return r.logError("voting_repo_admit_marshal_failed", err, "vote_id", strings.TrimSpace(vote.VoteID))
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := voteModelFromEntity(vote)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}

		if vote.Kind == entities.IdentityKindLink {
			update := tx.Model(&voteLinkModel{}).
				Where("token = ?", strings.TrimSpace(vote.LinkToken)).
				Where("used = ?", false).
				Updates(map[string]any{
					"used":    true,
					"used_at": vote.CreatedAt.UTC(),
				})
			if update.Error != nil {
				return update.Error
			}
			if update.RowsAffected == 0 {
				// Lost the race against another consumer of the same link;
				// roll the vote back.
				return domainerrors.ErrVoteLinkUsed
			}
		}

		outboxRow := outboxModel{
			OutboxID:     strings.TrimSpace(event.EventID),
			EventType:    strings.TrimSpace(event.EventType),
			PartitionKey: strings.TrimSpace(event.PartitionKey),
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		}
		if outboxRow.OutboxID == "" {
			outboxRow.OutboxID = uuid.NewString()
		}
		if outboxRow.CreatedAt.IsZero() {
			outboxRow.CreatedAt = time.Now().UTC()
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) || errors.Is(err, domainerrors.ErrVoteLinkUsed) {
			return err
		}
		return r.logError("voting_repo_admit_failed", err,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"poll_id", strings.TrimSpace(vote.PollID),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, domainerrors.ErrVoteNotFound
		}
		return entities.Vote{}, r.logError("voting_repo_get_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListVotesByPoll(ctx context.Context, pollID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_votes_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountVotesByChoice(ctx context.Context, pollID string) (map[string]int, error) {
	type choiceCount struct {
		ChoiceID string `gorm:"column:choice_id"`
		Total    int    `gorm:"column:total"`
	}
	var rows []choiceCount
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("choice_id, COUNT(*) AS total").
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Group("choice_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_count_votes_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ChoiceID] = row.Total
	}
	return counts, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "polling/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

type pollModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	OrganizationID string     `gorm:"column:organization_id"`
	Title          string     `gorm:"column:title"`
	Description    string     `gorm:"column:description"`
	CreatedBy      string     `gorm:"column:created_by"`
	StartAt        *time.Time `gorm:"column:start_at"`
	EndAt          *time.Time `gorm:"column:end_at"`
	IsActive       bool       `gorm:"column:is_active"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (pollModel) TableName() string {
	return "polls"
}

func (m pollModel) toEntity() entities.Poll {
	return entities.Poll{
		PollID:         m.ID,
		OrganizationID: m.OrganizationID,
		Title:          m.Title,
		Description:    m.Description,
		CreatedBy:      m.CreatedBy,
		StartAt:        normalizeOptionalTime(m.StartAt),
		EndAt:          normalizeOptionalTime(m.EndAt),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type choiceModel struct {
	ID     string `gorm:"column:id;primaryKey"`
	PollID string `gorm:"column:poll_id"`
	Text   string `gorm:"column:text"`
}

func (choiceModel) TableName() string {
	return "choices"
}

func (m choiceModel) toEntity() entities.Choice {
	return entities.Choice{
		ChoiceID: m.ID,
		PollID:   m.PollID,
		Text:     m.Text,
	}
}

type voteLinkModel struct {
	Token        string     `gorm:"column:token;primaryKey"`
	PollID       string     `gorm:"column:poll_id"`
	InviteeEmail string     `gorm:"column:invitee_email"`
	InviteeName  string     `gorm:"column:invitee_name"`
	Used         bool       `gorm:"column:used"`
	UsedAt       *time.Time `gorm:"column:used_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (voteLinkModel) TableName() string {
	return "vote_links"
}

func (m voteLinkModel) toEntity() entities.VoteLink {
	return entities.VoteLink{
		Token:        m.Token,
		PollID:       m.PollID,
		InviteeEmail: m.InviteeEmail,
		InviteeName:  m.InviteeName,
		Used:         m.Used,
		UsedAt:       normalizeOptionalTime(m.UsedAt),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PollID      string    `gorm:"column:poll_id;uniqueIndex:idx_votes_poll_identity"`
	ChoiceID    string    `gorm:"column:choice_id"`
	IdentityKey string    `gorm:"column:identity_key;uniqueIndex:idx_votes_poll_identity"`
	Kind        string    `gorm:"column:identity_kind"`
	VoterID     *string   `gorm:"column:voter_id"`
	LinkToken   *string   `gorm:"column:link_token"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:          strings.TrimSpace(vote.VoteID),
		PollID:      strings.TrimSpace(vote.PollID),
		ChoiceID:    strings.TrimSpace(vote.ChoiceID),
		IdentityKey: strings.TrimSpace(vote.IdentityKey),
		Kind:        string(vote.Kind),
		CreatedAt:   vote.CreatedAt.UTC(),
	}
	if voterID := strings.TrimSpace(vote.VoterID); voterID != "" {
		row.VoterID = &voterID
	}
	if token := strings.TrimSpace(vote.LinkToken); token != "" {
		row.LinkToken = &token
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	voterID := ""
	if m.VoterID != nil {
		voterID = *m.VoterID
	}
	token := ""
	if m.LinkToken != nil {
		token = *m.LinkToken
	}
	return entities.Vote{
		VoteID:      m.ID,
		PollID:      m.PollID,
		ChoiceID:    m.ChoiceID,
		IdentityKey: m.IdentityKey,
		Kind:        entities.IdentityKind(m.Kind),
		VoterID:     voterID,
		LinkToken:   token,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator is the production IDGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.PollProjection = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
