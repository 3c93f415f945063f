// Package app provides database initialization and setup.
package app

import (
	"context"
	"fmt"

	"github.com/gan-shmuel/weight-service/config"
	"github.com/gan-shmuel/weight-service/internal/circuitbreaker"
	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/gan-shmuel/weight-service/internal/repository"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	Postgres             *repository.Postgres
	Tx                   repository.TxRunner
	Sessions             repository.SessionsRepositoryInterface
	Containers           repository.ContainersRepositoryInterface
	LedgerCircuitBreaker *circuitbreaker.CircuitBreaker
	Mongo                *repository.MongoDB
	LoggingService       service.LoggingService
	LogsCircuitBreaker   *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to Postgres, applies the schema and builds the
// ledger repositories. Postgres is required; failing to reach it is fatal.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	pgCfg := repository.DefaultPostgresConfig(cfg.DSN)
	pgCfg.MaxOpenConns = cfg.MaxOpenConns
	pgCfg.MaxIdleConns = cfg.MaxIdleConns
	pgCfg.ConnMaxLifetime = cfg.ConnMaxLifetime
	pgCfg.ConnectRetries = cfg.ConnectRetries
	pgCfg.RetryDelay = cfg.RetryDelay

	pg, err := repository.NewPostgres(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	log.Info().Msg("Connected to Postgres")

	ledgerCB := newCircuitBreaker("postgres", cfg, repository.IsStoreFailure)

	return &DatabaseComponents{
		Postgres:             pg,
		Tx:                   repository.NewTxRunnerWithCircuitBreaker(pg, ledgerCB),
		Sessions:             repository.NewSessionsRepository(pg),
		Containers:           repository.NewContainersRepository(pg),
		LedgerCircuitBreaker: ledgerCB,
	}, nil
}

// InitializeLogsSink connects the optional MongoDB sink for request and
// audit logs. It returns false when the sink is disabled or unreachable;
// the service keeps running without it.
func InitializeLogsSink(ctx context.Context, db *DatabaseComponents, cfg config.LogsConfig, breaker config.DatabaseConfig) bool {
	if !cfg.Enabled {
		return false
	}

	mongo, err := repository.OpenMongoDB(ctx, cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without log sink")
		return false
	}
	log.Info().Msg("Connected to MongoDB")

	if cfg.TTL > 0 {
		if err := mongo.SetLogsTTL(ctx, cfg.TTL); err != nil {
			log.Warn().Err(err).Dur("ttl", cfg.TTL).Msg("Failed to set logs TTL index")
		}
	}

	logsCB := newCircuitBreaker("mongodb-logs", breaker, nil)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(mongo), logsCB)

	db.Mongo = mongo
	db.LogsCircuitBreaker = logsCB
	db.LoggingService = service.NewLoggingService(logsRepo)
	return true
}

func newCircuitBreaker(name string, cfg config.DatabaseConfig, isFailure func(error) bool) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        isFailure,
		OnStateChange:    reportStateChange,
	})
}

// reportStateChange publishes transitions; the breaker logs them itself.
func reportStateChange(name string, _, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}

// Close releases both connection pools.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil {
		return
	}
	if d.Mongo != nil {
		if err := d.Mongo.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close MongoDB client")
		}
	}
	if d.Postgres != nil {
		if err := d.Postgres.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Postgres pool")
		}
	}
}
