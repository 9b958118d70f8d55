// Package bootstrap assembles the components shared by the API server and
// the admin CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/crisis"
	"github.com/spec-kit/peer-support/internal/persistence"
	"github.com/spec-kit/peer-support/internal/repository"
)

// Pinger is anything a readiness check can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores holds the opened persistence backends.
type Stores struct {
	Messages   repository.MessageStore
	Counselors repository.CounselorRepository
	Readiness  map[string]Pinger

	closers []func()
}

// Close releases every backend in reverse opening order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores opens the message store selected by cfg.Store.Backend and the
// counselor repository. Counselors live in postgres when a DSN is set and
// in memory otherwise.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{Readiness: map[string]Pinger{}}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s.closers = append(s.closers, pg.Close)
	if pg.Enabled() {
		s.Readiness["postgres"] = pg
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				s.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		s.Counselors = repository.NewCounselorRepository(pg.Pool)
	} else {
		logger.Warn("counselor accounts kept in memory; they are lost on restart")
		s.Counselors = repository.NewMemoryCounselorRepository()
	}

	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, true, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, rdb.Close)
		s.Readiness["redis"] = rdb
		s.Messages = repository.NewRedisMessageStore(rdb.Client, cfg.Store.RedisKey)
	case config.StoreBackendPostgres:
		if !pg.Enabled() {
			s.Close()
			return nil, fmt.Errorf("store backend postgres needs POSTGRES_DSN")
		}
		s.Messages = repository.NewPostgresMessageStore(pg.Pool)
	case config.StoreBackendPebble:
		store, err := repository.OpenPebbleMessageStore(cfg.Store.PebblePath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open pebble store: %w", err)
		}
		s.closers = append(s.closers, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close pebble store", zap.Error(err))
			}
		})
		s.Readiness["pebble"] = store
		s.Messages = store
	default:
		logger.Warn("using in-memory message store; records are lost on restart")
		s.Messages = repository.NewMemoryStore()
	}

	logger.Info("message store ready", zap.String("backend", cfg.Store.Backend))
	return s, nil
}

// NewClassifier builds the classifier from the configured keyword file, or
// the built-in table when none is set.
func NewClassifier(cfg config.CrisisConfig, logger *zap.Logger) (*crisis.Classifier, error) {
	if cfg.KeywordsFile == "" {
		return crisis.NewClassifier(), nil
	}
	table, err := crisis.LoadTableFile(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	logger.Info("crisis keyword table loaded",
		zap.String("file", cfg.KeywordsFile),
		zap.Int("categories", len(table)))
	return crisis.NewClassifierWithTable(table), nil
}

// NewEscalator resolves the configured escalation policy.
func NewEscalator(cfg config.CrisisConfig) (*crisis.Escalator, error) {
	policy, err := crisis.PolicyByName(cfg.EscalationPolicy)
	if err != nil {
		return nil, err
	}
	return crisis.NewEscalator(policy), nil
}
