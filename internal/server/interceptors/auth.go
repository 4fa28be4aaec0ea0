package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const bearerPrefix = "bearer "

// TokenValidator resolves a bearer token to a session ID.
type TokenValidator interface {
	ValidateSession(token string) (string, error)
}

// SessionValidator reports whether a session referenced by a valid token still exists.
// Sessions expire server-side and are swept, so a well-signed token can outlive its session.
type SessionValidator func(ctx context.Context, sessionID string) (bool, error)

// AuthUnary returns a unary server interceptor that validates the Bearer session token
// and stores the session ID in context. publicMethods do not require a token; a
// token sent to a public method is still honored when valid; an invalid token or one
// whose session has ended is ignored there. sessions may be nil.
func AuthUnary(tokens TokenValidator, publicMethods map[string]bool, sessions SessionValidator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		public := publicMethods[info.FullMethod]
		token := extractBearer(ctx)
		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		sessionID, err := tokens.ValidateSession(token)
		if err == nil && sessions != nil {
			var ok bool
			ok, err = sessions(ctx, sessionID)
			if err == nil && !ok {
				if public {
					return handler(ctx, req)
				}
				return nil, status.Error(codes.Unauthenticated, "session expired or ended")
			}
		}
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		return handler(WithSessionID(ctx, sessionID), req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
