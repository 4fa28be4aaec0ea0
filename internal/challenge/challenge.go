// Package challenge implements the guess-the-factors game rules: picking a
// target, hinting, judging a guess, and scoring.
package challenge

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"

	"factor-frenzy/internal/challenge/domain"
	"factor-frenzy/internal/factor"
)

// ErrEmptyPool is returned when PickTarget is given no candidates.
var ErrEmptyPool = errors.New("candidate pool is empty")

// Hint messages, one per rule.
const (
	HintEven  = "It's even: try dividing by 2 or 4 first."
	HintThree = "The digits sum to a multiple of 3: start with 3."
	HintLarge = "It's over 100: work through the primes under 20."
	HintSmall = "Try 5 or 7."
)

// PickTarget draws one candidate uniformly at random from pool using r.
func PickTarget(pool []int64, r *rand.Rand) (int64, error) {
	if len(pool) == 0 {
		return 0, ErrEmptyPool
	}
	return pool[r.IntN(len(pool))], nil
}

// Hint returns a suggestion for n. Rules are checked in order and the first
// match wins, so an even multiple of 3 gets HintEven.
func Hint(n int64) string {
	switch {
	case n%2 == 0:
		return HintEven
	case n%3 == 0:
		return HintThree
	case n > 100:
		return HintLarge
	default:
		return HintSmall
	}
}

// ParseGuess splits a free-text guess on commas and keeps the tokens made only
// of ASCII digits. Everything else, including non-ASCII decimal digits such as
// fullwidth or Arabic-Indic forms, is dropped, not rejected.
func ParseGuess(s string) (kept []int64, dropped []string) {
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if !isDigits(tok) {
			dropped = append(dropped, tok)
			continue
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			dropped = append(dropped, tok)
			continue
		}
		kept = append(kept, n)
	}
	return kept, dropped
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Evaluate factorizes target and compares the parsed guess with it as
// multisets. A malformed or wrong guess yields Correct=false, never an error;
// the error is reserved for an invalid target (factor.ErrInvalidInput).
func Evaluate(guess string, target int64) (domain.Verdict, error) {
	m, err := factor.Factorize(target)
	if err != nil {
		return domain.Verdict{}, err
	}
	kept, dropped := ParseGuess(guess)
	return domain.Verdict{
		Correct: m.Factors.SameMultiset(kept),
		Truth:   m.Factors,
		Parsed:  kept,
		Dropped: dropped,
	}, nil
}

// ApplyScore returns current+1 for a correct guess and current otherwise.
func ApplyScore(current int, correct bool) int {
	if correct {
		return current + 1
	}
	return current
}
