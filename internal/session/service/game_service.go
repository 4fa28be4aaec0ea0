package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"factor-frenzy/internal/challenge"
	challengedomain "factor-frenzy/internal/challenge/domain"
	"factor-frenzy/internal/challenge/engine"
	"factor-frenzy/internal/pool"
	"factor-frenzy/internal/session/domain"
	"factor-frenzy/internal/session/repository"
	"factor-frenzy/internal/telemetry"
	telemetrydomain "factor-frenzy/internal/telemetry/domain"
)

// Sentinel errors; handlers map them to gRPC codes.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrNoActiveRound   = errors.New("no active round")
)

const (
	DefaultTTL  = 2 * time.Hour
	eventSource = "challenge"
)

// GameService drives the challenge round state machine for each session.
type GameService struct {
	repo        repository.Repository
	pools       *pool.Set
	defaultPool string
	hinter      engine.Hinter
	ttl         time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	now     func() time.Time
	newID   func() string
	emitter telemetry.EventEmitter
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// Option configures a GameService.
type Option func(*GameService)

// WithRand sets the random source used to pick targets.
func WithRand(r *rand.Rand) Option { return func(s *GameService) { s.rng = r } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *GameService) { s.now = now } }

// WithIDGenerator overrides uuid-based session and round IDs.
func WithIDGenerator(f func() string) Option { return func(s *GameService) { s.newID = f } }

// WithEmitter sets the telemetry event emitter.
func WithEmitter(e telemetry.EventEmitter) Option { return func(s *GameService) { s.emitter = e } }

// WithMetrics sets the metric instruments.
func WithMetrics(m *telemetry.Metrics) Option { return func(s *GameService) { s.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *GameService) { s.logger = l } }

// WithDefaultPool sets the pool used when StartSession is given no name.
func WithDefaultPool(name string) Option { return func(s *GameService) { s.defaultPool = name } }

// NewGameService returns a GameService. A nil hinter uses the built-in rules;
// a non-positive ttl uses DefaultTTL.
func NewGameService(repo repository.Repository, pools *pool.Set, hinter engine.Hinter, ttl time.Duration, opts ...Option) *GameService {
	if hinter == nil {
		hinter = engine.RuleHinter{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &GameService{
		repo:        repo,
		pools:       pools,
		defaultPool: "classic",
		hinter:      hinter,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// StartSession creates an Idle session with score 0 drawing from poolName
// (the default pool when empty).
func (s *GameService) StartSession(ctx context.Context, poolName string) (*domain.Session, error) {
	if poolName == "" {
		poolName = s.defaultPool
	}
	if !s.pools.Has(poolName) {
		return nil, fmt.Errorf("%w: %q", pool.ErrUnknownPool, poolName)
	}
	now := s.now()
	ses := &domain.Session{
		ID:         s.newID(),
		Pool:       poolName,
		Phase:      challengedomain.PhaseIdle,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		LastSeenAt: now,
	}
	if err := s.repo.Create(ctx, ses); err != nil {
		return nil, err
	}
	s.logger.Debug("session started", zap.String("session_id", ses.ID), zap.String("pool", poolName))
	return ses.Clone(), nil
}

// NewRound picks a target and moves the session from Idle to TargetChosen.
func (s *GameService) NewRound(ctx context.Context, sessionID string) (*domain.Session, error) {
	ses, err := s.update(ctx, sessionID, func(ses *domain.Session) error {
		if ses.Phase != challengedomain.PhaseIdle {
			return ErrRoundInProgress
		}
		members, err := s.pools.Get(ses.Pool)
		if err != nil {
			return err
		}
		target, err := s.pick(members)
		if err != nil {
			return err
		}
		now := s.now()
		ses.Round = &challengedomain.Round{ID: s.newID(), Target: target, StartedAt: now}
		ses.Phase = challengedomain.PhaseTargetChosen
		ses.LastSeenAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRoundStarted(ctx, ses.Pool)
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventRoundStarted, ses.ID, eventSource,
		map[string]any{"round_id": ses.Round.ID, "target": ses.Round.Target, "pool": ses.Pool}))
	return ses, nil
}

// Hint shows the hint for the current target. Asking again returns the same hint.
func (s *GameService) Hint(ctx context.Context, sessionID string) (string, *domain.Session, error) {
	var first bool
	ses, err := s.update(ctx, sessionID, func(ses *domain.Session) error {
		switch ses.Phase {
		case challengedomain.PhaseTargetChosen:
			ses.Round.Hint = s.hinter.Hint(ctx, ses.Round.Target)
			ses.Phase = challengedomain.PhaseHintShown
			first = true
		case challengedomain.PhaseHintShown:
		default:
			return ErrNoActiveRound
		}
		ses.LastSeenAt = s.now()
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if first {
		telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventHintShown, ses.ID, eventSource,
			map[string]any{"round_id": ses.Round.ID, "target": ses.Round.Target}))
	}
	return ses.Round.Hint, ses, nil
}

// SubmitGuess evaluates guess against the current target, applies the score,
// appends the round to the history and returns the session to Idle. The
// evaluated round is returned alongside the updated session.
func (s *GameService) SubmitGuess(ctx context.Context, sessionID, guess string) (*challengedomain.Round, *domain.Session, error) {
	ses, err := s.update(ctx, sessionID, func(ses *domain.Session) error {
		if !ses.Phase.AcceptsGuess() {
			return ErrNoActiveRound
		}
		round := ses.Round
		round.Guess = guess
		ses.Phase = challengedomain.PhaseGuessSubmitted

		verdict, err := challenge.Evaluate(guess, round.Target)
		if err != nil {
			return err
		}
		now := s.now()
		round.Verdict = &verdict
		round.EndedAt = &now
		ses.Phase = challengedomain.PhaseEvaluated
		ses.Score = challenge.ApplyScore(ses.Score, verdict.Correct)

		ses.History = append(ses.History, round)
		ses.Round = nil
		ses.Phase = challengedomain.PhaseIdle
		ses.LastSeenAt = now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	round := ses.History[len(ses.History)-1]
	s.metrics.RecordGuess(ctx, round.Verdict.Correct)
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventRoundEvaluated, ses.ID, eventSource,
		map[string]any{
			"round_id":  round.ID,
			"target":    round.Target,
			"correct":   round.Verdict.Correct,
			"hint_used": round.HintUsed(),
			"dropped":   len(round.Verdict.Dropped),
			"score":     ses.Score,
		}))
	s.logger.Debug("round evaluated",
		zap.String("session_id", ses.ID),
		zap.Int64("target", round.Target),
		zap.Bool("correct", round.Verdict.Correct),
		zap.Int("score", ses.Score))
	return round, ses, nil
}

// GetSession returns the session snapshot.
func (s *GameService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	ses, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return ses, err
}

// EndSession deletes the session.
func (s *GameService) EndSession(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

func (s *GameService) update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	ses, err := s.repo.Update(ctx, id, fn)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return ses, err
}

// pick serializes access to the shared random source.
func (s *GameService) pick(members []int64) (int64, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return challenge.PickTarget(members, s.rng)
}
