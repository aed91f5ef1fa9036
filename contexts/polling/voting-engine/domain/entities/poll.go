package entities

import "time"

// PollStatus is derived from timestamps and the active flag at decision
// time. It is never stored.
type PollStatus string

const (
	PollStatusUpcoming PollStatus = "upcoming"
	PollStatusOpen     PollStatus = "open"
	PollStatusClosed   PollStatus = "closed"
)

// Poll is the admission target. Owned by the admin CRUD collaborator; the
// engine reads it as a projection.
type Poll struct {
	PollID         string
	OrganizationID string
	Title          string
	Description    string
	CreatedBy      string
	StartAt        *time.Time
	EndAt          *time.Time
	IsActive       bool
	CreatedAt      time.Time
}

// Status computes the derived lifecycle state. is_active=false forces
// Closed regardless of timestamps.
func (p Poll) Status(now time.Time) PollStatus {
	if !p.IsActive {
		return PollStatusClosed
	}
	now = now.UTC()
	if p.StartAt != nil && now.Before(p.StartAt.UTC()) {
		return PollStatusUpcoming
	}
	if p.EndAt != nil && now.After(p.EndAt.UTC()) {
		return PollStatusClosed
	}
	return PollStatusOpen
}

// IsVotable reports whether the admission window holds:
// is_active AND (start_at absent OR now >= start_at) AND (end_at absent OR now <= end_at).
func (p Poll) IsVotable(now time.Time) bool {
	return p.Status(now) == PollStatusOpen
}

// ClosedReason names why the window does not hold, for logs only. Callers
// see a single poll-closed outcome.
func (p Poll) ClosedReason(now time.Time) string {
	if !p.IsActive {
		return "deactivated"
	}
	if p.StartAt != nil && now.UTC().Before(p.StartAt.UTC()) {
		return "not_started"
	}
	return "ended"
}

// ResultsVisible reports the tally visibility precondition: end_at must be
// set and passed. A poll without end_at never exposes results here.
func (p Poll) ResultsVisible(now time.Time) bool {
	return p.EndAt != nil && now.UTC().After(p.EndAt.UTC())
}

// Choice belongs to exactly one poll. Projection, read-only in this module.
type Choice struct {
	ChoiceID string
	PollID   string
	Text     string
}
