package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/broker"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/database"
	"github.com/stemsi/codetest-backend/internal/handler"
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/logger"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
	"github.com/stemsi/codetest-backend/internal/router"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/session"
	"github.com/stemsi/codetest-backend/internal/validator"
	"github.com/stemsi/codetest-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("broker", cfg.BrokerDriver).
		Msg("Starting Codetest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	defaultLanguage, err := judge.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid DEFAULT_LANGUAGE")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	// Integrity events and score summaries always live here.
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	checks := map[string]handler.Pinger{
		"postgres": pool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	var (
		tests      service.TestStore
		candidates service.CandidateStore
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, db, err := database.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			_ = client.Disconnect(dctx)
		}()
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		tests = repository.NewMongoTestRepository(db)
		candidates = repository.NewMongoCandidateRepository(db)
	case config.StoreDriverPostgres:
		tests = repository.NewTestRepository(pool)
		candidates = repository.NewCandidateRepository(pool)
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("Unknown STORE_DRIVER")
	}
	scoreRepo := repository.NewScoreRepository(pool)

	// ─── Connect to Broker ─────────────────────────────────────────────
	publisher, err := broker.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to message broker")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	judgeClient := judge.NewClient(judge.Options{
		BaseURL:   cfg.JudgeURL,
		AuthToken: cfg.JudgeAuthToken,
		Timeout:   cfg.JudgeTimeout,
	}, log)

	integrityQueue := worker.NewIntegrityQueue(rdb)
	scoreQueue := worker.NewScoreQueue(rdb)
	pendingReports := worker.NewPendingReportQueue(rdb)

	writer := report.NewWriter(tests, log,
		report.WithEnrollment(candidates),
		report.WithPublisher(publisher),
		report.WithSummaryQueue(scoreQueue),
	)

	catalogService := service.NewCatalogService(tests, rdb, cfg.TestCacheTTL, log)
	portalService := service.NewPortalService(tests, catalogService, candidates, cfg.AllowReattempt, log)
	reportService := service.NewReportService(tests, candidates, writer, scoreRepo)
	lifecycleService := service.NewLifecycleService(tests, catalogService, log)
	monitorService := service.NewMonitorService(rdb, log)

	liveService := service.NewLiveService(service.LiveDeps{
		Judge:           judgeClient,
		Loader:          catalogService,
		Writer:          writer,
		Authorizer:      portalService,
		Recorder:        integrityQueue,
		Fallback:        pendingReports,
		Enroller:        candidates,
		Monitor:         monitorService,
		Clock:           session.RealClock(),
		DefaultLanguage: defaultLanguage,
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Portal:  handler.NewPortalHandler(portalService, reportService, log),
		WS:      handler.NewWSHandler(liveService, log, cfg.AllowedOrigins),
		Test:    handler.NewTestHandler(lifecycleService),
		Report:  handler.NewReportHandler(reportService, log),
		Monitor: handler.NewMonitorHandler(tests, liveService, monitorService, log),
		System:  handler.NewSystemHandler(rdb, liveService, checks, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	integrityWorker := worker.NewIntegrityWorker(pool, rdb, log)
	scoringWorker := worker.NewScoringWorker(pool, rdb, log)
	reportWorker := worker.NewReportWorker(writer, rdb, log)

	workers.Add(3)
	go func() {
		defer workers.Done()
		integrityWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		scoringWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		reportWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, rdb, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop countdowns and let in-flight submissions write their entries.
	liveService.Shutdown()

	if err := publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("Broker close error")
	}

	// 3. Stop background workers and wait for queues to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
