// Package repository provides the data access layer: PostgreSQL for the
// weighing ledger and tare registry, MongoDB for the optional log sink.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// PostgresConfig holds connection and pool settings.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectRetries is the number of extra attempts after the first ping.
	ConnectRetries int
	// RetryDelay is the fixed wait between connection attempts.
	RetryDelay time.Duration
}

// DefaultPostgresConfig returns pool settings suitable for a single scale site.
func DefaultPostgresConfig(dsn string) PostgresConfig {
	return PostgresConfig{
		DSN:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectRetries:  10,
		RetryDelay:      3 * time.Second,
	}
}

// Postgres wraps the connection pool shared by the SQL repositories.
type Postgres struct {
	DB *sql.DB
}

// ErrNoTransaction is returned by operations that must run inside RunInTx.
var ErrNoTransaction = errors.New("operation requires a transaction")

// NewPostgres opens the pool and pings it, retrying with a fixed delay.
// The database usually starts alongside the service, so the first pings
// are expected to fail.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.RetryDelay), uint64(cfg.ConnectRetries)),
		ctx,
	)
	err = backoff.Retry(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("Postgres not reachable yet")
			return err
		}
		return nil
	}, policy)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres after %d attempts: %w", attempt, err)
	}

	return &Postgres{DB: db}, nil
}

const schema = `
CREATE SEQUENCE IF NOT EXISTS session_id_seq;

CREATE TABLE IF NOT EXISTS sessions (
	id          BIGSERIAL PRIMARY KEY,
	session_id  BIGINT      NOT NULL,
	truck       TEXT        NOT NULL DEFAULT 'na',
	direction   TEXT        NOT NULL CHECK (direction IN ('in', 'out', 'none')),
	bruto       INT,
	truck_tara  INT,
	neto        INT,
	containers  TEXT        NOT NULL DEFAULT '',
	produce     TEXT        NOT NULL DEFAULT 'na',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

-- rows are ordered by created_at; writers stamp it after taking the ledger lock
ALTER TABLE sessions ALTER COLUMN created_at SET DEFAULT clock_timestamp();

CREATE INDEX IF NOT EXISTS sessions_truck_idx ON sessions (truck, direction);
CREATE INDEX IF NOT EXISTS sessions_session_idx ON sessions (session_id);
CREATE INDEX IF NOT EXISTS sessions_created_idx ON sessions (created_at);

CREATE TABLE IF NOT EXISTS containers_registered (
	container_id TEXT PRIMARY KEY,
	weight       INT,
	unit         TEXT NOT NULL DEFAULT 'kg'
);
`

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

type txKey struct{}

// RunInTx runs fn in a read-committed transaction carried by ctx.
// Repositories called with that ctx join the transaction.
func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := p.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return classifyStoreError(err)
	}
	return tx.Commit()
}

// SQLSTATE 22003, a value that does not fit its column.
const sqlNumericOutOfRange pq.ErrorCode = "22003"

func outOfRange(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == sqlNumericOutOfRange
}

// classifyStoreError turns rejected input values into validation errors.
// Anything else is returned unchanged.
func classifyStoreError(err error) error {
	if !outOfRange(err) {
		return err
	}
	return &model.Error{Kind: model.KindValidation, Op: "store", Message: "value out of range", Err: err}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (p *Postgres) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return p.DB
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// HealthCheck runs SELECT 1 against the pool.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	var one int
	return p.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	return p.DB.Close()
}
