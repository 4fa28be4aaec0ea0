package repository

import (
	"context"
	"errors"
	"time"

	"factor-frenzy/internal/session/domain"
)

var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned by Create when the ID is already taken.
	ErrExists = errors.New("session already exists")
)

// Repository stores game sessions. Implementations must isolate sessions from
// each other and apply Update atomically per session.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// Get returns a copy of the session. Expired sessions are not returned.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Update runs fn on the stored session under that session's lock. If fn
	// returns an error nothing is written. The updated copy is returned.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes sessions expired at now and returns how many were removed.
	Sweep(ctx context.Context, now time.Time) int
}
