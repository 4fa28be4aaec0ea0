// Package factor computes prime factorizations by trial division and reports
// how long each computation took.
package factor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"factor-frenzy/internal/factor/domain"
)

// ErrInvalidInput is returned when a target is below 2, not an integer, or not numeric.
var ErrInvalidInput = errors.New("invalid input")

// MinTarget is the smallest number Factorize accepts.
const MinTarget = 2

// DefaultBatch is the comparison batch used when a caller supplies no numbers.
var DefaultBatch = []int64{21, 33, 57, 65}

// Factorize returns the prime factorization of n in ascending order together
// with the elapsed computation time. It is pure and safe for concurrent use.
func Factorize(n int64) (domain.Measurement, error) {
	if n < MinTarget {
		return domain.Measurement{}, fmt.Errorf("%w: %d is less than %d", ErrInvalidInput, n, MinTarget)
	}
	start := time.Now()
	factors, divisions := trialDivision(n)
	elapsed := time.Since(start)
	return domain.Measurement{
		Target:    n,
		Factors:   factors,
		Elapsed:   RoundSeconds(elapsed),
		Divisions: divisions,
	}, nil
}

// trialDivision divides out each candidate d while d*d <= remainder. The bound
// shrinks with the remainder; d <= rem/d avoids overflowing d*d.
func trialDivision(n int64) (domain.FactorList, int64) {
	var (
		factors   domain.FactorList
		divisions int64
	)
	rem := n
	for d := int64(2); d <= rem/d; d++ {
		divisions++
		for rem%d == 0 {
			factors = append(factors, d)
			rem /= d
		}
	}
	if rem > 1 {
		factors = append(factors, rem)
	}
	return factors, divisions
}

// RoundSeconds converts d to seconds rounded to 6 decimal places.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e6) / 1e6
}

// ParseTarget parses user input into a target. Empty, non-numeric, fractional,
// and out-of-range input all fail with ErrInvalidInput; nothing is coerced.
func ParseTarget(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty number", ErrInvalidInput)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, s)
	}
	if n < MinTarget {
		return 0, fmt.Errorf("%w: %d is less than %d", ErrInvalidInput, n, MinTarget)
	}
	return n, nil
}

// Batch factorizes each number in order. It stops at the first invalid number.
func Batch(ns []int64) ([]domain.Measurement, error) {
	out := make([]domain.Measurement, 0, len(ns))
	for i, n := range ns {
		m, err := Factorize(n)
		if err != nil {
			return nil, fmt.Errorf("batch index %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
