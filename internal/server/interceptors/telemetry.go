package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"factor-frenzy/internal/telemetry"
	telemetrydomain "factor-frenzy/internal/telemetry/domain"
)

// grpcRequestMetadata is the JSON shape of grpc_request event metadata.
type grpcRequestMetadata struct {
	FullMethod string `json:"full_method"`
	StatusCode string `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// TelemetryUnary returns a unary server interceptor that emits a grpc_request event after each RPC.
// Best-effort; a nil emitter makes it a pass-through. skipMethods are not emitted.
func TelemetryUnary(emitter telemetry.EventEmitter, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if emitter == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		sessionID, _ := GetSessionID(ctx)
		meta := grpcRequestMetadata{
			FullMethod: info.FullMethod,
			StatusCode: status.Code(err).String(),
			DurationMs: time.Since(start).Milliseconds(),
			ClientIP:   ClientIP(ctx),
		}
		telemetry.EmitAsync(emitter, ctx, telemetry.NewEvent(telemetrydomain.EventGRPCRequest, sessionID, "grpc_interceptor", meta))
		return resp, err
	}
}
