package entities

import "time"

// IdentityKind tags the two credential variants behind one admission path.
type IdentityKind string

const (
	IdentityKindAccount IdentityKind = "account"
	IdentityKindLink    IdentityKind = "link"
)

// VotingIdentity is the resolved entity permitted to cast at most one vote
// per poll. Account identities carry the org scope asserted upstream; link
// identities carry the minted token and are org-unscoped.
type VotingIdentity struct {
	Kind           IdentityKind
	VoterID        string
	Token          string
	OrganizationID string
}

// Key is the uniqueness key the admission transaction serializes on,
// together with the poll id.
func (i VotingIdentity) Key() string {
	if i.Kind == IdentityKindLink {
		return "link:" + i.Token
	}
	return "account:" + i.VoterID
}

// VoteLink is a single-use voting credential minted by an administrator for
// one invitee, bound to one poll. Once used it can never be reused.
type VoteLink struct {
	Token        string
	PollID       string
	InviteeEmail string
	InviteeName  string
	Used         bool
	UsedAt       *time.Time
	CreatedAt    time.Time
}

// Vote is an immutable, append-only admission fact. At most one exists per
// (poll, identity) pair.
type Vote struct {
	VoteID      string
	PollID      string
	ChoiceID    string
	IdentityKey string
	Kind        IdentityKind
	VoterID     string
	LinkToken   string
	CreatedAt   time.Time
}

// ChoiceTally is one row of a recomputed result set.
type ChoiceTally struct {
	ChoiceID string
	Text     string
	Votes    int
}

// PollResult is the closed-poll tally for one poll.
type PollResult struct {
	PollID      string
	Title       string
	Description string
	TotalVotes  int
	Tallies     []ChoiceTally
}
