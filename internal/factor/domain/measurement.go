package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FactorList is the prime factorization of a target in non-decreasing order,
// with multiplicity. Its product equals the target.
type FactorList []int64

// Product returns the product of all factors (1 for an empty list).
func (f FactorList) Product() int64 {
	p := int64(1)
	for _, v := range f {
		p *= v
	}
	return p
}

// Equal reports whether f and other hold the same values in the same order.
func (f FactorList) Equal(other []int64) bool {
	return slices.Equal(f, other)
}

// SameMultiset reports whether f and other hold the same values with the same
// multiplicities, ignoring order.
func (f FactorList) SameMultiset(other []int64) bool {
	if len(f) != len(other) {
		return false
	}
	a := slices.Clone([]int64(f))
	b := slices.Clone(other)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func (f FactorList) String() string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Measurement pairs a factorization with how long it took. Produced once per
// Factorize call and never mutated.
type Measurement struct {
	Target  int64
	Factors FactorList
	// Elapsed is wall-clock seconds rounded to 6 decimal places. Observational only.
	Elapsed float64
	// Divisions counts candidate divisors tried by the trial-division scan.
	Divisions int64
}

// Duration returns Elapsed as a time.Duration.
func (m Measurement) Duration() time.Duration {
	return time.Duration(m.Elapsed * float64(time.Second))
}
