package handler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/challenge"
	challengedomain "factor-frenzy/internal/challenge/domain"
	"factor-frenzy/internal/factor"
	"factor-frenzy/internal/pool"
	sessiondomain "factor-frenzy/internal/session/domain"
	"factor-frenzy/internal/session/service"
	"factor-frenzy/internal/server/interceptors"
)

// GameService is the session state machine the handler drives.
type GameService interface {
	StartSession(ctx context.Context, pool string) (*sessiondomain.Session, error)
	NewRound(ctx context.Context, sessionID string) (*sessiondomain.Session, error)
	Hint(ctx context.Context, sessionID string) (string, *sessiondomain.Session, error)
	SubmitGuess(ctx context.Context, sessionID, guess string) (*challengedomain.Round, *sessiondomain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*sessiondomain.Session, error)
	EndSession(ctx context.Context, sessionID string) error
}

// TokenIssuer signs the bearer token handed out with a new session.
type TokenIssuer interface {
	IssueSession(sessionID, pool string, expiresAt time.Time) (string, error)
}

// Server implements ChallengeService. Every method except StartSession reads the
// session ID placed in context by the auth interceptor.
type Server struct {
	frenzyv1.UnimplementedChallengeServiceServer
	game   GameService
	tokens TokenIssuer
	logger *zap.Logger
}

// NewServer returns a ChallengeService server. If game is nil, all RPCs return Unimplemented.
func NewServer(game GameService, tokens TokenIssuer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{game: game, tokens: tokens, logger: logger}
}

// StartSession creates a session and returns its bearer token.
func (s *Server) StartSession(ctx context.Context, req *frenzyv1.StartSessionRequest) (*frenzyv1.StartSessionResponse, error) {
	if s.game == nil || s.tokens == nil {
		return nil, status.Error(codes.Unimplemented, "method StartSession not implemented")
	}
	var poolName string
	if req != nil {
		poolName = req.Pool
	}
	ses, err := s.game.StartSession(ctx, poolName)
	if err != nil {
		return nil, s.toStatus(err)
	}
	token, err := s.tokens.IssueSession(ses.ID, ses.Pool, ses.ExpiresAt)
	if err != nil {
		s.logger.Error("issue session token", zap.String("session_id", ses.ID), zap.Error(err))
		if endErr := s.game.EndSession(ctx, ses.ID); endErr != nil {
			s.logger.Warn("end orphaned session", zap.String("session_id", ses.ID), zap.Error(endErr))
		}
		return nil, status.Error(codes.Internal, "failed to issue session token")
	}
	return &frenzyv1.StartSessionResponse{
		SessionID: ses.ID,
		Token:     token,
		Pool:      ses.Pool,
		ExpiresAt: ses.ExpiresAt,
	}, nil
}

// NewRound draws a target from the session's pool.
func (s *Server) NewRound(ctx context.Context, _ *frenzyv1.NewRoundRequest) (*frenzyv1.NewRoundResponse, error) {
	sessionID, err := s.sessionID(ctx, "NewRound")
	if err != nil {
		return nil, err
	}
	ses, err := s.game.NewRound(ctx, sessionID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &frenzyv1.NewRoundResponse{
		RoundID: ses.Round.ID,
		Target:  ses.Round.Target,
		Phase:   string(ses.Phase),
	}, nil
}

// GetHint returns the hint for the open round.
func (s *Server) GetHint(ctx context.Context, _ *frenzyv1.GetHintRequest) (*frenzyv1.GetHintResponse, error) {
	sessionID, err := s.sessionID(ctx, "GetHint")
	if err != nil {
		return nil, err
	}
	hint, ses, err := s.game.Hint(ctx, sessionID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &frenzyv1.GetHintResponse{Hint: hint, Phase: string(ses.Phase)}, nil
}

// SubmitGuess evaluates the guess. An incorrect guess is a normal response, not an error.
func (s *Server) SubmitGuess(ctx context.Context, req *frenzyv1.SubmitGuessRequest) (*frenzyv1.SubmitGuessResponse, error) {
	sessionID, err := s.sessionID(ctx, "SubmitGuess")
	if err != nil {
		return nil, err
	}
	var guess string
	if req != nil {
		guess = req.Guess
	}
	round, ses, err := s.game.SubmitGuess(ctx, sessionID, guess)
	if err != nil {
		return nil, s.toStatus(err)
	}
	v := round.Verdict
	return &frenzyv1.SubmitGuessResponse{
		RoundID:  round.ID,
		Target:   round.Target,
		Correct:  v.Correct,
		Truth:    append([]int64{}, v.Truth...),
		Parsed:   append([]int64{}, v.Parsed...),
		Dropped:  v.Dropped,
		HintUsed: round.HintUsed(),
		Score:    ses.Score,
		Phase:    string(ses.Phase),
	}, nil
}

// GetSession returns the score, phase and round history.
func (s *Server) GetSession(ctx context.Context, _ *frenzyv1.GetSessionRequest) (*frenzyv1.Session, error) {
	sessionID, err := s.sessionID(ctx, "GetSession")
	if err != nil {
		return nil, err
	}
	ses, err := s.game.GetSession(ctx, sessionID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return sessionToProto(ses), nil
}

func (s *Server) sessionID(ctx context.Context, method string) (string, error) {
	if s.game == nil {
		return "", status.Errorf(codes.Unimplemented, "method %s not implemented", method)
	}
	id, ok := interceptors.GetSessionID(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "session token required")
	}
	return id, nil
}

func (s *Server) toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, service.ErrRoundInProgress), errors.Is(err, service.ErrNoActiveRound):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, pool.ErrUnknownPool), errors.Is(err, factor.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, challenge.ErrEmptyPool):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error("challenge rpc failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

func sessionToProto(ses *sessiondomain.Session) *frenzyv1.Session {
	out := &frenzyv1.Session{
		SessionID: ses.ID,
		Pool:      ses.Pool,
		Score:     ses.Score,
		Phase:     string(ses.Phase),
		History:   make([]*frenzyv1.Round, 0, len(ses.History)),
		ExpiresAt: ses.ExpiresAt,
	}
	if ses.Round != nil {
		out.CurrentTarget = ses.Round.Target
	}
	for _, r := range ses.History {
		pr := &frenzyv1.Round{
			RoundID: r.ID,
			Target:  r.Target,
			Hint:    r.Hint,
			Guess:   r.Guess,
		}
		if r.Verdict != nil {
			pr.Correct = r.Verdict.Correct
			pr.Truth = append([]int64{}, r.Verdict.Truth...)
		}
		out.History = append(out.History, pr)
	}
	return out
}
