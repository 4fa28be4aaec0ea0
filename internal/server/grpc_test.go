package server

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/pool"
	"factor-frenzy/internal/security"
	"factor-frenzy/internal/session/repository"
	"factor-frenzy/internal/session/service"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	services []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.services = append(m.services, desc.ServiceName)
}

func TestRegisterServices_AllServicesRegistered(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{})

	want := []string{"frenzy.v1.FactorService", "frenzy.v1.ChallengeService", "grpc.health.v1.Health"}
	if len(mockReg.services) != len(want) {
		t.Fatalf("registered %v, want %v", mockReg.services, want)
	}
	for i, name := range want {
		if mockReg.services[i] != name {
			t.Errorf("service %d = %q, want %q", i, mockReg.services[i], name)
		}
	}
}

func TestUnaryInterceptors_Chain(t *testing.T) {
	if n := len(UnaryInterceptors(Deps{})); n != 2 {
		t.Errorf("bare chain length = %d, want 2", n)
	}
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if n := len(UnaryInterceptors(Deps{Tokens: tokens})); n != 3 {
		t.Errorf("chain with auth length = %d, want 3", n)
	}
}

func TestPublicMethods(t *testing.T) {
	for _, m := range []string{
		frenzyv1.ChallengeService_NewRound_FullMethodName,
		frenzyv1.ChallengeService_GetHint_FullMethodName,
		frenzyv1.ChallengeService_SubmitGuess_FullMethodName,
		frenzyv1.ChallengeService_GetSession_FullMethodName,
	} {
		if PublicMethods[m] {
			t.Errorf("%s must require a session token", m)
		}
	}
}

// startBufconn serves a fully wired server over an in-memory listener.
func startBufconn(t *testing.T, deps Deps) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(deps)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func testDeps(t *testing.T) (Deps, *repository.MemoryStore) {
	t.Helper()
	pools, err := pool.Parse([]byte("pools:\n  only33: [33]\n"))
	if err != nil {
		t.Fatalf("pool.Parse: %v", err)
	}
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	store := repository.NewMemoryStore()
	var n atomic.Int64
	game := service.NewGameService(store, pools, nil, time.Hour,
		service.WithRand(rand.New(rand.NewPCG(3, 4))),
		service.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", n.Add(1)) }),
		service.WithDefaultPool("only33"),
	)
	return Deps{Game: game, Tokens: tokens, MaxTarget: 1_000_000}, store
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func TestEndToEnd_FactorService(t *testing.T) {
	deps, _ := testDeps(t)
	client := frenzyv1.NewFactorServiceClient(startBufconn(t, deps))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Factorize(ctx, &frenzyv1.FactorizeRequest{Number: "105"})
	if err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	if fmt.Sprint(resp.Factors) != "[3 5 7]" {
		t.Errorf("factors = %v, want [3 5 7]", resp.Factors)
	}

	_, err = client.Factorize(ctx, &frenzyv1.FactorizeRequest{Number: "seven"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("non-numeric: code = %v, want InvalidArgument", status.Code(err))
	}
	_, err = client.Factorize(ctx, &frenzyv1.FactorizeRequest{Number: "1000001"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("above max: code = %v, want InvalidArgument", status.Code(err))
	}

	batch, err := client.Batch(ctx, &frenzyv1.BatchRequest{})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(batch.Measurements) != 4 {
		t.Errorf("batch measurements = %d, want 4", len(batch.Measurements))
	}
}

func TestEndToEnd_ChallengeRound(t *testing.T) {
	deps, store := testDeps(t)
	client := frenzyv1.NewChallengeServiceClient(startBufconn(t, deps))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.NewRound(ctx, &frenzyv1.NewRoundRequest{}); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("NewRound without token: code = %v, want Unauthenticated", status.Code(err))
	}

	start, err := client.StartSession(ctx, &frenzyv1.StartSessionRequest{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	authed := withToken(ctx, start.Token)

	round, err := client.NewRound(authed, &frenzyv1.NewRoundRequest{})
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if round.Target != 33 {
		t.Fatalf("target = %d, want 33", round.Target)
	}
	res, err := client.SubmitGuess(authed, &frenzyv1.SubmitGuessRequest{Guess: "3, 11"})
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if !res.Correct || res.Score != 1 {
		t.Errorf("result = %+v, want correct with score 1", res)
	}
	ses, err := client.GetSession(authed, &frenzyv1.GetSessionRequest{})
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if ses.Score != 1 || len(ses.History) != 1 {
		t.Errorf("session = %+v", ses)
	}

	// A valid token for a session that no longer exists is rejected.
	if err := store.Delete(ctx, start.SessionID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.GetSession(authed, &frenzyv1.GetSessionRequest{}); status.Code(err) != codes.Unauthenticated {
		t.Errorf("ended session: code = %v, want Unauthenticated", status.Code(err))
	}
}

func TestEndToEnd_Health(t *testing.T) {
	deps, _ := testDeps(t)
	client := healthpb.NewHealthClient(startBufconn(t, deps))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "frenzy.v1.ChallengeService"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}
}
