package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	PollID   string `json:"poll_id,omitempty"`
	ChoiceID string `json:"choice_id"`
	Token    string `json:"token,omitempty"`
}

type VoteResponse struct {
	VoteID       string `json:"vote_id"`
	PollID       string `json:"poll_id"`
	ChoiceID     string `json:"choice_id"`
	IdentityKind string `json:"identity_kind"`
	CreatedAt    string `json:"created_at"`
}

type ChoiceTallyItem struct {
	ChoiceID string `json:"choice_id"`
	Text     string `json:"text"`
	Votes    int    `json:"votes"`
}

type PollResultsResponse struct {
	PollID      string            `json:"poll_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TotalVotes  int               `json:"total_votes"`
	Results     []ChoiceTallyItem `json:"results"`
}
