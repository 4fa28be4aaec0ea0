package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/factor"
	telemetrydomain "factor-frenzy/internal/telemetry/domain"
)

type mockEmitter struct {
	mu     sync.Mutex
	events []*telemetrydomain.Event
}

func (m *mockEmitter) Emit(_ context.Context, ev *telemetrydomain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *mockEmitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error", want)
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("error is not a gRPC status: %v", err)
	}
	if st.Code() != want {
		t.Errorf("status code = %v, want %v", st.Code(), want)
	}
}

func TestFactorize_Success(t *testing.T) {
	srv := NewServer()
	tests := []struct {
		number string
		want   []int64
	}{
		{"2", []int64{2}},
		{"97", []int64{97}},
		{" 105 ", []int64{3, 5, 7}},
		{"1024", []int64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
	}
	for _, tc := range tests {
		resp, err := srv.Factorize(context.Background(), &frenzyv1.FactorizeRequest{Number: tc.number})
		if err != nil {
			t.Fatalf("Factorize(%q): %v", tc.number, err)
		}
		if diff := cmp.Diff(tc.want, resp.Factors); diff != "" {
			t.Errorf("Factorize(%q) factors mismatch (-want +got):\n%s", tc.number, diff)
		}
		if resp.ElapsedSeconds < 0 {
			t.Errorf("elapsed = %v, want >= 0", resp.ElapsedSeconds)
		}
	}
}

func TestFactorize_InvalidInput(t *testing.T) {
	srv := NewServer(WithLimits(1000, 0))
	for _, in := range []string{"", "abc", "7.5", "8.0", "1", "0", "-4", "1001"} {
		_, err := srv.Factorize(context.Background(), &frenzyv1.FactorizeRequest{Number: in})
		assertCode(t, err, codes.InvalidArgument)
	}
	_, err := srv.Factorize(context.Background(), nil)
	assertCode(t, err, codes.InvalidArgument)
}

func TestFactorize_EmitsEvent(t *testing.T) {
	em := &mockEmitter{}
	srv := NewServer(WithEmitter(em))
	if _, err := srv.Factorize(context.Background(), &frenzyv1.FactorizeRequest{Number: "21"}); err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for em.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.events) != 1 || em.events[0].Type != telemetrydomain.EventFactorize {
		t.Fatalf("events = %+v", em.events)
	}
}

func TestBatch_Default(t *testing.T) {
	srv := NewServer()
	resp, err := srv.Batch(context.Background(), &frenzyv1.BatchRequest{})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(resp.Measurements) != len(factor.DefaultBatch) {
		t.Fatalf("measurements = %d, want %d", len(resp.Measurements), len(factor.DefaultBatch))
	}
	for i, m := range resp.Measurements {
		if m.Target != factor.DefaultBatch[i] {
			t.Errorf("measurement %d target = %d, want %d", i, m.Target, factor.DefaultBatch[i])
		}
	}
	if diff := cmp.Diff([]int64{5, 13}, resp.Measurements[3].Factors); diff != "" {
		t.Errorf("65 factors mismatch (-want +got):\n%s", diff)
	}
}

func TestBatch_Errors(t *testing.T) {
	srv := NewServer(WithLimits(100, 3))
	tests := []struct {
		name    string
		numbers []int64
	}{
		{"too many", []int64{4, 6, 8, 9}},
		{"below two", []int64{21, 1}},
		{"above max", []int64{21, 101}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := srv.Batch(context.Background(), &frenzyv1.BatchRequest{Numbers: tc.numbers})
			assertCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestWithLimits_IgnoresInvalid(t *testing.T) {
	srv := NewServer(WithLimits(1, -1))
	if srv.maxTarget != DefaultMaxTarget || srv.maxBatch != DefaultMaxBatch {
		t.Errorf("limits = %d/%d, want defaults", srv.maxTarget, srv.maxBatch)
	}
}
