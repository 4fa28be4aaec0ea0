package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"factor-frenzy/internal/telemetry/domain"
)

// recordCapture stores the last Record passed to Emit.
type recordCapture struct {
	rec otellog.Record
	n   int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.n++
}

func attrsOf(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), &domain.Event{Type: "x"}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestNewEventEmitter_RealProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewEventEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
	if err := em.Emit(context.Background(), &domain.Event{Type: domain.EventFactorize}); err != nil {
		t.Errorf("Emit: %v", err)
	}
}

func TestEmit_NilEventSkipped(t *testing.T) {
	cap := &recordCapture{}
	if err := NewEventEmitterWithLogger(cap).Emit(context.Background(), nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if cap.n != 0 {
		t.Errorf("emitted %d records for nil event", cap.n)
	}
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	cap := &recordCapture{}
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	event := &domain.Event{
		Type:      domain.EventRoundEvaluated,
		SessionID: "sess1",
		Source:    "challenge",
		Metadata:  []byte(`{"correct":true}`),
		CreatedAt: created,
	}
	if err := NewEventEmitterWithLogger(cap).Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := cap.rec
	if got := string(rec.Body().AsBytes()); got != `{"correct":true}` {
		t.Errorf("body = %q", got)
	}
	if !rec.Timestamp().Equal(created) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), created)
	}
	want := map[string]string{"event_type": "round_evaluated", "session_id": "sess1", "source": "challenge"}
	attrs := attrsOf(rec)
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_EmptyFieldsOmitted(t *testing.T) {
	cap := &recordCapture{}
	before := time.Now().UTC()
	if err := NewEventEmitterWithLogger(cap).Emit(context.Background(), &domain.Event{Type: domain.EventFactorize}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := cap.rec
	if !rec.Body().Empty() {
		t.Error("body should be empty when metadata is nil")
	}
	attrs := attrsOf(rec)
	if _, ok := attrs["session_id"]; ok {
		t.Error("session_id should not be set")
	}
	if attrs["event_type"] != "factorize" {
		t.Errorf("event_type = %q", attrs["event_type"])
	}
	if rec.Timestamp().Before(before) {
		t.Errorf("timestamp = %v, want >= %v", rec.Timestamp(), before)
	}
}
