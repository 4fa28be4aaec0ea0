package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"factor-frenzy/internal/challenge/engine"
	"factor-frenzy/internal/config"
	healthhandler "factor-frenzy/internal/health/handler"
	"factor-frenzy/internal/logging"
	"factor-frenzy/internal/pool"
	"factor-frenzy/internal/security"
	"factor-frenzy/internal/server"
	"factor-frenzy/internal/session/repository"
	"factor-frenzy/internal/session/service"
	"factor-frenzy/internal/telemetry"
	frenzyotel "factor-frenzy/internal/telemetry/otel"
)

const serviceName = "factor-frenzy"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf)); err != nil {
		logger.Warn("automaxprocs", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := frenzyotel.NewProviders(ctx, frenzyotel.Options{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Insecure:       cfg.OTLPInsecure,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
	}()

	var emitter telemetry.EventEmitter
	if providers.Enabled() {
		emitter = frenzyotel.NewEventEmitter(providers.LoggerProvider)
	}
	var metrics *telemetry.Metrics
	if providers.MeterProvider != nil {
		metrics, err = telemetry.NewMetrics(providers.MeterProvider.Meter(serviceName))
		if err != nil {
			return err
		}
	}

	tokens, err := newTokenProvider(cfg, logger)
	if err != nil {
		return err
	}

	pools, err := pool.Load(cfg.PoolsPath)
	if err != nil {
		return err
	}
	if !pools.Has(cfg.DefaultPool) {
		logger.Error("default pool not defined", zap.String("pool", cfg.DefaultPool), zap.Strings("pools", pools.Names()))
		return pool.ErrUnknownPool
	}
	if err := pools.CheckMax(cfg.MaxTarget); err != nil {
		logger.Error("pool exceeds max target", zap.Int64("max_target", cfg.MaxTarget), zap.Error(err))
		return err
	}

	var (
		hinter     engine.Hinter = engine.RuleHinter{}
		hintPolicy healthhandler.PolicyChecker
	)
	if cfg.HintPolicyPath != "" {
		opa, err := engine.LoadOPAHinter(ctx, cfg.HintPolicyPath, logger)
		if err != nil {
			return err
		}
		hinter, hintPolicy = opa, opa
		logger.Info("hint policy loaded", zap.String("path", cfg.HintPolicyPath))
	}

	store := repository.NewMemoryStore()
	game := service.NewGameService(store, pools, hinter, cfg.SessionTTL(),
		service.WithDefaultPool(cfg.DefaultPool),
		service.WithEmitter(emitter),
		service.WithMetrics(metrics),
		service.WithLogger(logger),
	)

	srv := server.NewServer(server.Deps{
		Game:           game,
		Tokens:         tokens,
		HintPolicy:     hintPolicy,
		Metrics:        metrics,
		Emitter:        emitter,
		Logger:         logger,
		MaxTarget:      cfg.MaxTarget,
		MaxBatch:       cfg.MaxBatch,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, grpc.StatsHandler(otelgrpc.NewServerHandler()))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return store.RunSweeper(gctx, cfg.SweepInterval(), logger)
	})
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()), zap.String("version", version))
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gRPC server...")
		srv.GracefulStop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("gRPC server stopped")

	if emitter != nil {
		// Let in-flight async emits finish before the log provider shuts down.
		time.Sleep(telemetry.ShutdownDrainDuration)
	}
	return nil
}

func newTokenProvider(cfg *config.Config, logger *zap.Logger) (*security.TokenProvider, error) {
	if cfg.EphemeralKeys() {
		logger.Warn("SESSION_PRIVATE_KEY not set; signing session tokens with an ephemeral key")
		return security.NewEphemeralTokenProvider(cfg.SessionIssuer, cfg.SessionAudience)
	}
	signer, pub, err := security.LoadKeyPair(cfg.SessionPrivateKey, cfg.SessionPublicKey)
	if err != nil {
		return nil, err
	}
	return security.NewTokenProvider(signer, pub, cfg.SessionIssuer, cfg.SessionAudience)
}
