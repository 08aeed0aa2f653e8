// Command examctl is the operator tool for seeding tests, driving their
// lifecycle, minting tokens and reading reports from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/database"
	"github.com/stemsi/codetest-backend/internal/logger"
	"github.com/stemsi/codetest-backend/internal/repository"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/validator"
	"github.com/urfave/cli/v3"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	app := &cli.Command{
		Name:  "examctl",
		Usage: "manage coding tests from the command line",
		Commands: []*cli.Command{
			seedCommand(cfg, log),
			lifecycleCommand("start", "open a test to candidates", cfg, log, (*service.LifecycleService).Start),
			lifecycleCommand("end", "close a running test", cfg, log, (*service.LifecycleService).End),
			lifecycleCommand("reconduct", "reset a finished test to scheduled", cfg, log, (*service.LifecycleService).Reconduct),
			tokenCommand(cfg),
			reportCommand(cfg, log),
			migrateCommand(cfg),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// stores holds the connections a subcommand needs for the configured driver.
type stores struct {
	tests      service.TestStore
	candidates service.CandidateStore
	rdb        *redis.Client
	closers    []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects to the test store selected by STORE_DRIVER. Redis is
// optional here: when it is unreachable cache invalidation is skipped.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, db, err := database.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s.closers = append(s.closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		})
		s.tests = repository.NewMongoTestRepository(db)
		s.candidates = repository.NewMongoCandidateRepository(db)
	case config.StoreDriverPostgres:
		pool, err := openPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.tests = repository.NewTestRepository(pool)
		s.candidates = repository.NewCandidateRepository(pool)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, test cache will not be invalidated")
	} else {
		s.rdb = rdb
		s.closers = append(s.closers, func() { _ = rdb.Close() })
	}
	return s, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}
