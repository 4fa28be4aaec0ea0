package engine

import (
	"context"

	"factor-frenzy/internal/challenge"
)

// Hinter produces the pre-guess hint for a target.
type Hinter interface {
	// Hint returns exactly one hint for n. It never fails; engines that can
	// fail internally fall back to the built-in rules.
	Hint(ctx context.Context, n int64) string
}

// RuleHinter applies the built-in rules from challenge.Hint.
type RuleHinter struct{}

// Hint implements Hinter.
func (RuleHinter) Hint(_ context.Context, n int64) string {
	return challenge.Hint(n)
}
