package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// policyCheckTimeout bounds one hint-policy health check.
const policyCheckTimeout = 2 * time.Second

// PolicyChecker reports whether the hint policy still compiles and evaluates.
// *engine.OPAHinter implements it.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements grpc.health.v1.Health. The overall service ("") and every
// name in services report SERVING unless the policy check fails.
type Server struct {
	healthpb.UnimplementedHealthServer
	policy   PolicyChecker
	services map[string]bool
	logger   *zap.Logger
}

// NewServer returns a health server. policy may be nil when hints use the built-in rules.
func NewServer(policy PolicyChecker, logger *zap.Logger, services ...string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	known := map[string]bool{"": true}
	for _, s := range services {
		known[s] = true
	}
	return &Server{policy: policy, services: known, logger: logger}
}

// Check returns NOT_SERVING when the hint policy fails its check. Unknown
// services get NotFound, as the health protocol requires.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if !s.services[req.GetService()] {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	if s.policy != nil {
		checkCtx, cancel := context.WithTimeout(ctx, policyCheckTimeout)
		defer cancel()
		if err := s.policy.HealthCheck(checkCtx); err != nil {
			s.logger.Warn("health: hint policy check failed", zap.Error(err))
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
