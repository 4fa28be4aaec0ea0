package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/factor"
	"factor-frenzy/internal/factor/domain"
	"factor-frenzy/internal/server/interceptors"
	"factor-frenzy/internal/telemetry"
	telemetrydomain "factor-frenzy/internal/telemetry/domain"
)

const (
	DefaultMaxTarget int64 = 1_000_000_000_000
	DefaultMaxBatch        = 64
)

// Server implements FactorService: one-off factorizations and batch comparisons.
type Server struct {
	frenzyv1.UnimplementedFactorServiceServer
	maxTarget int64
	maxBatch  int
	metrics   *telemetry.Metrics
	emitter   telemetry.EventEmitter
	logger    *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLimits caps the accepted target and batch size. Non-positive values keep the defaults.
func WithLimits(maxTarget int64, maxBatch int) Option {
	return func(s *Server) {
		if maxTarget >= factor.MinTarget {
			s.maxTarget = maxTarget
		}
		if maxBatch > 0 {
			s.maxBatch = maxBatch
		}
	}
}

func WithMetrics(m *telemetry.Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithEmitter(e telemetry.EventEmitter) Option { return func(s *Server) { s.emitter = e } }

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer returns a FactorService server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		maxTarget: DefaultMaxTarget,
		maxBatch:  DefaultMaxBatch,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factorize parses the number, factors it and reports the measurement.
func (s *Server) Factorize(ctx context.Context, req *frenzyv1.FactorizeRequest) (*frenzyv1.FactorizeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "number required")
	}
	n, err := factor.ParseTarget(req.Number)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.checkTarget(n); err != nil {
		return nil, err
	}
	m, err := factor.Factorize(n)
	if err != nil {
		return nil, toStatus(err)
	}
	s.observe(ctx, m)
	return measurementToProto(m), nil
}

// Batch factorizes each number in order. An empty request runs the default batch.
func (s *Server) Batch(ctx context.Context, req *frenzyv1.BatchRequest) (*frenzyv1.BatchResponse, error) {
	var numbers []int64
	if req != nil {
		numbers = req.Numbers
	}
	if len(numbers) == 0 {
		numbers = factor.DefaultBatch
	}
	if len(numbers) > s.maxBatch {
		return nil, status.Errorf(codes.InvalidArgument, "batch of %d exceeds limit %d", len(numbers), s.maxBatch)
	}
	for i, n := range numbers {
		if err := s.checkTarget(n); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "batch index %d: %s", i, status.Convert(err).Message())
		}
	}
	ms, err := factor.Batch(numbers)
	if err != nil {
		return nil, toStatus(err)
	}
	out := &frenzyv1.BatchResponse{Measurements: make([]*frenzyv1.FactorizeResponse, 0, len(ms))}
	for _, m := range ms {
		s.observe(ctx, m)
		out.Measurements = append(out.Measurements, measurementToProto(m))
	}
	return out, nil
}

func (s *Server) checkTarget(n int64) error {
	if n > s.maxTarget {
		return status.Errorf(codes.InvalidArgument, "%d exceeds the largest accepted number %d", n, s.maxTarget)
	}
	return nil
}

func (s *Server) observe(ctx context.Context, m domain.Measurement) {
	s.metrics.RecordFactorize(ctx, m.Elapsed)
	sessionID, _ := interceptors.GetSessionID(ctx)
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventFactorize, sessionID, "factor",
		map[string]any{
			"target":          m.Target,
			"factors":         m.Factors,
			"elapsed_seconds": m.Elapsed,
			"divisions":       m.Divisions,
		}))
	s.logger.Debug("factorized",
		zap.Int64("target", m.Target),
		zap.Stringer("factors", m.Factors),
		zap.Int64("divisions", m.Divisions))
}

func toStatus(err error) error {
	if errors.Is(err, factor.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("factorize: %v", err))
}

func measurementToProto(m domain.Measurement) *frenzyv1.FactorizeResponse {
	factors := make([]int64, len(m.Factors))
	copy(factors, m.Factors)
	return &frenzyv1.FactorizeResponse{
		Target:         m.Target,
		Factors:        factors,
		ElapsedSeconds: m.Elapsed,
		Divisions:      m.Divisions,
	}
}
