package domain

import (
	"time"

	factordomain "factor-frenzy/internal/factor/domain"
)

// Phase is the position of a session in the challenge round state machine:
// Idle → TargetChosen → HintShown (optional) → GuessSubmitted → Evaluated → Idle.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseTargetChosen   Phase = "target_chosen"
	PhaseHintShown      Phase = "hint_shown"
	PhaseGuessSubmitted Phase = "guess_submitted"
	PhaseEvaluated      Phase = "evaluated"
)

// AcceptsGuess reports whether a guess may be submitted in this phase.
func (p Phase) AcceptsGuess() bool {
	return p == PhaseTargetChosen || p == PhaseHintShown
}

// Verdict is the outcome of comparing a guess with the true factorization.
type Verdict struct {
	Correct bool
	Truth   factordomain.FactorList
	// Parsed holds the numeric tokens kept from the guess, in input order.
	Parsed []int64
	// Dropped holds the tokens discarded as malformed.
	Dropped []string
}

// Round is one challenge round. A round with a nil Verdict is still open.
type Round struct {
	ID        string
	Target    int64
	Hint      string // empty when no hint was shown
	Guess     string
	Verdict   *Verdict
	StartedAt time.Time
	EndedAt   *time.Time
}

// HintUsed reports whether a hint was shown during the round.
func (r *Round) HintUsed() bool {
	return r.Hint != ""
}
