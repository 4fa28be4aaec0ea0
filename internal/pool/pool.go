// Package pool loads the named candidate pools that challenge rounds draw targets from.
package pool

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"factor-frenzy/internal/factor"
)

// ErrUnknownPool is returned by Get when no pool has the requested name.
var ErrUnknownPool = errors.New("unknown pool")

// ErrTargetTooLarge is returned by CheckMax when a pool member exceeds the target limit.
var ErrTargetTooLarge = errors.New("pool member exceeds max target")

//go:embed pools.yaml
var defaultPools []byte

type document struct {
	Pools map[string][]int64 `yaml:"pools"`
}

// Set is an immutable collection of named pools.
type Set struct {
	pools map[string][]int64
}

// Default returns the embedded pools (classic, stats, mixed).
func Default() *Set {
	s, err := Parse(defaultPools)
	if err != nil {
		panic(fmt.Sprintf("pool: embedded pools invalid: %v", err))
	}
	return s
}

// Load reads pools from a YAML file. An empty path returns Default().
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pools: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML pools document and validates every pool.
func Parse(b []byte) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	if len(doc.Pools) == 0 {
		return nil, errors.New("pools: document defines no pools")
	}
	for name, members := range doc.Pools {
		if name == "" {
			return nil, errors.New("pools: empty pool name")
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("pools: %q is empty", name)
		}
		for _, n := range members {
			if n < factor.MinTarget {
				return nil, fmt.Errorf("pools: %q contains %d, want >= %d", name, n, factor.MinTarget)
			}
		}
	}
	return &Set{pools: doc.Pools}, nil
}

// Get returns a copy of the named pool.
func (s *Set) Get(name string) ([]int64, error) {
	members, ok := s.pools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPool, name)
	}
	return slices.Clone(members), nil
}

// Has reports whether a pool with the given name exists.
func (s *Set) Has(name string) bool {
	_, ok := s.pools[name]
	return ok
}

// CheckMax returns ErrTargetTooLarge naming the first pool and member above limit.
// Pools are checked in name order. A limit <= 0 disables the check.
func (s *Set) CheckMax(limit int64) error {
	if limit <= 0 {
		return nil
	}
	for _, name := range s.Names() {
		for _, n := range s.pools[name] {
			if n > limit {
				return fmt.Errorf("%w: %q contains %d, max %d", ErrTargetTooLarge, name, n, limit)
			}
		}
	}
	return nil
}

// Names returns the pool names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.pools))
	for name := range s.pools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
