package entities

import (
	"testing"
	"time"
)

func ts(t time.Time) *time.Time { return &t }

func TestPollStatus(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		poll Poll
		want PollStatus
	}{
		{"inactive always closed", Poll{IsActive: false}, PollStatusClosed},
		{"inactive with open window still closed", Poll{
			IsActive: false,
			StartAt:  ts(now.Add(-time.Hour)),
			EndAt:    ts(now.Add(time.Hour)),
		}, PollStatusClosed},
		{"before start", Poll{IsActive: true, StartAt: ts(now.Add(time.Minute))}, PollStatusUpcoming},
		{"after end", Poll{IsActive: true, EndAt: ts(now.Add(-time.Minute))}, PollStatusClosed},
		{"inside window", Poll{
			IsActive: true,
			StartAt:  ts(now.Add(-time.Minute)),
			EndAt:    ts(now.Add(time.Minute)),
		}, PollStatusOpen},
		{"no bounds", Poll{IsActive: true}, PollStatusOpen},
		{"exactly at start", Poll{IsActive: true, StartAt: ts(now)}, PollStatusOpen},
		{"exactly at end", Poll{IsActive: true, EndAt: ts(now)}, PollStatusOpen},
	}
	for _, tc := range cases {
		if got := tc.poll.Status(now); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestPollClosedReason(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if got := (Poll{IsActive: false}).ClosedReason(now); got != "deactivated" {
		t.Fatalf("expected deactivated, got %s", got)
	}
	if got := (Poll{IsActive: true, StartAt: ts(now.Add(time.Hour))}).ClosedReason(now); got != "not_started" {
		t.Fatalf("expected not_started, got %s", got)
	}
	if got := (Poll{IsActive: true, EndAt: ts(now.Add(-time.Hour))}).ClosedReason(now); got != "ended" {
		t.Fatalf("expected ended, got %s", got)
	}
}

func TestPollResultsVisible(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if (Poll{IsActive: true}).ResultsVisible(now) {
		t.Fatalf("poll without end_at must never expose results")
	}
	if (Poll{IsActive: true, EndAt: ts(now.Add(time.Hour))}).ResultsVisible(now) {
		t.Fatalf("poll before end must not expose results")
	}
	if !(Poll{IsActive: true, EndAt: ts(now.Add(-time.Hour))}).ResultsVisible(now) {
		t.Fatalf("ended poll must expose results")
	}
	if !(Poll{IsActive: false, EndAt: ts(now.Add(-time.Hour))}).ResultsVisible(now) {
		t.Fatalf("deactivated ended poll must still expose results")
	}
}

func TestVotingIdentityKey(t *testing.T) {
	account := VotingIdentity{Kind: IdentityKindAccount, VoterID: "voter-1"}
	if got := account.Key(); got != "account:voter-1" {
		t.Fatalf("unexpected account key %s", got)
	}
	link := VotingIdentity{Kind: IdentityKindLink, Token: "token-1"}
	if got := link.Key(); got != "link:token-1" {
		t.Fatalf("unexpected link key %s", got)
	}
}
