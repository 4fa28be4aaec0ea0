package interceptors

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	telemetrydomain "factor-frenzy/internal/telemetry/domain"
)

type chanEmitter struct {
	mu     sync.Mutex
	events []*telemetrydomain.Event
}

func (c *chanEmitter) Emit(_ context.Context, ev *telemetrydomain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *chanEmitter) wait(t *testing.T, n int) []*telemetrydomain.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		got := append([]*telemetrydomain.Event(nil), c.events...)
		c.mu.Unlock()
		if len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events", n)
	return nil
}

func TestTelemetryUnary_EmitsGRPCRequest(t *testing.T) {
	em := &chanEmitter{}
	interceptor := TelemetryUnary(em, nil)
	ctx := WithSessionID(ipCtx("10.1.1.1"), "sess-9")
	_, _ = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/frenzy.v1.ChallengeService/GetHint"},
		func(context.Context, any) (any, error) { return nil, status.Error(codes.FailedPrecondition, "no round") })

	ev := em.wait(t, 1)[0]
	if ev.Type != telemetrydomain.EventGRPCRequest || ev.SessionID != "sess-9" {
		t.Errorf("event = %+v", ev)
	}
	var meta grpcRequestMetadata
	if err := json.Unmarshal(ev.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.FullMethod != "/frenzy.v1.ChallengeService/GetHint" || meta.StatusCode != "FailedPrecondition" || meta.ClientIP != "10.1.1.1" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestTelemetryUnary_NilEmitterAndSkip(t *testing.T) {
	if _, err := TelemetryUnary(nil, nil)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, okHandler); err != nil {
		t.Fatalf("nil emitter: %v", err)
	}
	em := &chanEmitter{}
	interceptor := TelemetryUnary(em, map[string]bool{"/x/y": true})
	_, _ = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, okHandler)
	time.Sleep(20 * time.Millisecond)
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.events) != 0 {
		t.Errorf("skipped method emitted %d events", len(em.events))
	}
}
