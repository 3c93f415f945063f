package repository

import (
	"context"
	"errors"

	"github.com/gan-shmuel/weight-service/internal/circuitbreaker"
	"github.com/gan-shmuel/weight-service/internal/domain/model"
)

// TxRunnerWithCircuitBreaker guards every ledger and registry transaction.
// Only store failures count against the circuit; domain outcomes such as a
// conflict roll the transaction back without tripping it.
type TxRunnerWithCircuitBreaker struct {
	runner         TxRunner
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewTxRunnerWithCircuitBreaker wraps runner with cb.
func NewTxRunnerWithCircuitBreaker(runner TxRunner, cb *circuitbreaker.CircuitBreaker) *TxRunnerWithCircuitBreaker {
	return &TxRunnerWithCircuitBreaker{runner: runner, circuitBreaker: cb}
}

// IsStoreFailure is the failure predicate for store circuit breakers.
// Values rejected by the store as out of range are input errors.
func IsStoreFailure(err error) bool {
	return model.KindOf(err) == model.KindStore && !outOfRange(err)
}

// RunInTx runs fn through the circuit breaker. An open circuit surfaces as
// a store error.
func (r *TxRunnerWithCircuitBreaker) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.runner.RunInTx(ctx, fn)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return model.StoreError("run in tx", err)
	}
	return err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *TxRunnerWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker guards the log sink. Writes are best
// effort and dropped while the circuit is open; reads report the open circuit.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Insert(ctx, entries...)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.LogEntry, error) {
		return r.repo.Find(ctx, opts)
	})
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return guarded(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}
