package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"factor-frenzy/internal/session/domain"
)

// entry guards one session with its own mutex so updates to different
// sessions never contend.
type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// MemoryStore is an in-memory Repository. Sessions do not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]*entry
	nowF func() time.Time
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]*entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a copy of s.
func (s *MemoryStore) Create(ctx context.Context, ses *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[ses.ID]; ok && !e.expired(s.nowF()) {
		return ErrExists
	}
	s.m[ses.ID] = &entry{session: ses.Clone()}
	return nil
}

// Get returns a copy of the session if present and not expired.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	if e.session.Expired(s.nowF()) {
		e.mu.Unlock()
		s.remove(id, e)
		return nil, ErrNotFound
	}
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Update applies fn to a working copy and commits it only when fn succeeds.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	if e.session.Expired(s.nowF()) {
		e.mu.Unlock()
		s.remove(id, e)
		return nil, ErrNotFound
	}
	defer e.mu.Unlock()
	work := e.session.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.session = work
	return work.Clone(), nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}

// Sweep removes every session expired at now.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.m {
		if e.expired(now) {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(ctx, s.nowF()); n > 0 {
				logger.Debug("swept expired sessions", zap.Int("removed", n))
			}
		}
	}
}

func (s *MemoryStore) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.m[id]
	s.mu.RUnlock()
	return e, ok
}

// remove deletes id only if it still maps to e. Callers must not hold e.mu.
func (s *MemoryStore) remove(id string, e *entry) {
	s.mu.Lock()
	if cur, ok := s.m[id]; ok && cur == e {
		delete(s.m, id)
	}
	s.mu.Unlock()
}

func (e *entry) expired(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Expired(now)
}
