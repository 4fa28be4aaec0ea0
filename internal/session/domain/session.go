package domain

import (
	"slices"
	"time"

	challengedomain "factor-frenzy/internal/challenge/domain"
)

// Session is one player's game state. It owns the score and the round log;
// nothing is shared between sessions.
type Session struct {
	ID         string
	Pool       string // name of the candidate pool rounds draw from
	Score      int
	Phase      challengedomain.Phase
	Round      *challengedomain.Round   // current round; nil when Idle
	History    []*challengedomain.Round // completed rounds, oldest first
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Clone returns a deep copy so callers can read a session without holding the store lock.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Round = cloneRound(s.Round)
	c.History = make([]*challengedomain.Round, len(s.History))
	for i, r := range s.History {
		c.History[i] = cloneRound(r)
	}
	return &c
}

func cloneRound(r *challengedomain.Round) *challengedomain.Round {
	if r == nil {
		return nil
	}
	c := *r
	if r.Verdict != nil {
		v := *r.Verdict
		v.Truth = slices.Clone(r.Verdict.Truth)
		v.Parsed = slices.Clone(r.Verdict.Parsed)
		v.Dropped = slices.Clone(r.Verdict.Dropped)
		c.Verdict = &v
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	return &c
}
