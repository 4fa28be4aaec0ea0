package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	challengehandler "factor-frenzy/internal/challenge/handler"
	factorhandler "factor-frenzy/internal/factor/handler"
	healthhandler "factor-frenzy/internal/health/handler"
	"factor-frenzy/internal/security"
	"factor-frenzy/internal/server/interceptors"
	"factor-frenzy/internal/session/service"
	"factor-frenzy/internal/telemetry"
)

// Deps holds the dependencies of the gRPC handlers and interceptors.
type Deps struct {
	// Game drives challenge sessions. If nil, ChallengeService RPCs return Unimplemented.
	Game *service.GameService
	// Tokens issues and validates session tokens. If nil, no auth interceptor is installed
	// and every ChallengeService method except StartSession fails with Unauthenticated.
	Tokens *security.TokenProvider
	// HintPolicy is checked by the health service. If nil, Check skips the policy check.
	HintPolicy healthhandler.PolicyChecker
	Metrics    *telemetry.Metrics
	Emitter    telemetry.EventEmitter
	Logger     *zap.Logger
	// MaxTarget and MaxBatch bound FactorService input. Zero keeps the handler defaults.
	MaxTarget int64
	MaxBatch  int
	// RateLimitRPS <= 0 disables per-client rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// PublicMethods do not require a session token.
var PublicMethods = map[string]bool{
	frenzyv1.FactorService_Factorize_FullMethodName:       true,
	frenzyv1.FactorService_Batch_FullMethodName:           true,
	frenzyv1.ChallengeService_StartSession_FullMethodName: true,
	healthpb.Health_Check_FullMethodName:                  true,
	healthpb.Health_Watch_FullMethodName:                  true,
	healthListMethod:                                      true,
}

const healthListMethod = "/grpc.health.v1.Health/List"

// healthMethods are neither rate limited, logged nor emitted as telemetry.
var healthMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
	healthListMethod:                     true,
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - frenzy.v1.FactorService    → internal/factor/handler
//   - frenzy.v1.ChallengeService → internal/challenge/handler
//   - grpc.health.v1.Health      → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	frenzyv1.RegisterFactorServiceServer(s, factorhandler.NewServer(
		factorhandler.WithLimits(deps.MaxTarget, deps.MaxBatch),
		factorhandler.WithMetrics(deps.Metrics),
		factorhandler.WithEmitter(deps.Emitter),
		factorhandler.WithLogger(deps.Logger),
	))

	var game challengehandler.GameService
	if deps.Game != nil {
		game = deps.Game
	}
	var tokens challengehandler.TokenIssuer
	if deps.Tokens != nil {
		tokens = deps.Tokens
	}
	frenzyv1.RegisterChallengeServiceServer(s, challengehandler.NewServer(game, tokens, deps.Logger))

	healthpb.RegisterHealthServer(s, healthhandler.NewServer(deps.HintPolicy, deps.Logger,
		frenzyv1.FactorService_ServiceDesc.ServiceName,
		frenzyv1.ChallengeService_ServiceDesc.ServiceName,
	))
}

// UnaryInterceptors returns the server chain: rate limit → logging → auth → telemetry.
func UnaryInterceptors(deps Deps) []grpc.UnaryServerInterceptor {
	chain := []grpc.UnaryServerInterceptor{
		interceptors.RateLimitUnary(deps.RateLimitRPS, deps.RateLimitBurst, healthMethods),
		interceptors.LoggingUnary(deps.Logger, healthMethods),
	}
	if deps.Tokens != nil {
		chain = append(chain, interceptors.AuthUnary(deps.Tokens, PublicMethods, sessionValidator(deps.Game)))
	}
	if deps.Emitter != nil {
		chain = append(chain, interceptors.TelemetryUnary(deps.Emitter, healthMethods))
	}
	return chain
}

// NewServer builds a gRPC server with the interceptor chain and all services registered.
func NewServer(deps Deps, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryInterceptors(deps)...)}, opts...)
	s := grpc.NewServer(opts...)
	RegisterServices(s, deps)
	return s
}

// sessionValidator rejects tokens whose session has expired or ended.
func sessionValidator(game *service.GameService) interceptors.SessionValidator {
	if game == nil {
		return nil
	}
	return func(ctx context.Context, sessionID string) (bool, error) {
		_, err := game.GetSession(ctx, sessionID)
		if errors.Is(err, service.ErrSessionNotFound) {
			return false, nil
		}
		return err == nil, err
	}
}
