// Package circuitbreaker guards the backing stores against cascading failures.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned instead of calling fn while the breaker rejects
// traffic.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State of a breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Config tunes a breaker.
type Config struct {
	Name string
	// FailureThreshold consecutive failures open a closed breaker.
	FailureThreshold int
	// SuccessThreshold half-open successes close it again.
	SuccessThreshold int
	// Timeout is the open period before probes are let through.
	Timeout time.Duration
	// MaxProbes caps concurrent half-open calls. Zero means SuccessThreshold.
	MaxProbes int
	// IsFailure classifies errors; nil counts every error except
	// context.Canceled.
	IsFailure func(error) bool
	// OnStateChange runs outside the lock after every transition.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the store breaker defaults.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

type transition struct{ from, to State }

// CircuitBreaker counts outcomes per generation. A generation ends on
// every state change so results of calls admitted earlier are ignored.
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	generation  uint64
	failures    int
	successes   int
	probes      int
	openedAt    time.Time
	lastFailure time.Time
}

// New returns a closed breaker. Thresholds below one are raised to one.
func New(cfg Config) *CircuitBreaker {
	cfg.FailureThreshold = max(cfg.FailureThreshold, 1)
	cfg.SuccessThreshold = max(cfg.SuccessThreshold, 1)
	if cfg.MaxProbes <= 0 {
		cfg.MaxProbes = cfg.SuccessThreshold
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string { return cb.cfg.Name }

// Execute calls fn unless the breaker rejects it. A done ctx is returned
// as is, without calling fn or touching the counters.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gen, err := cb.admit()
	if err != nil {
		return err
	}
	err = fn()
	cb.record(gen, err)
	return err
}

func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	changes := cb.refresh()
	var err error
	switch {
	case cb.state == StateOpen:
		err = ErrCircuitOpen
	case cb.state == StateHalfOpen && cb.probes >= cb.cfg.MaxProbes:
		err = ErrCircuitOpen
	case cb.state == StateHalfOpen:
		cb.probes++
	}
	gen := cb.generation
	cb.mu.Unlock()

	cb.notify(changes)
	return gen, err
}

func (cb *CircuitBreaker) record(gen uint64, err error) {
	cb.mu.Lock()
	changes := cb.refresh()
	if gen == cb.generation {
		if cb.state == StateHalfOpen {
			cb.probes--
		}
		if err != nil && cb.isFailure(err) {
			changes = append(changes, cb.failure()...)
		} else {
			changes = append(changes, cb.success()...)
		}
	}
	cb.mu.Unlock()

	cb.notify(changes)
}

func (cb *CircuitBreaker) isFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return cb.cfg.IsFailure == nil || cb.cfg.IsFailure(err)
}

// refresh, failure, success and moveTo require mu.

func (cb *CircuitBreaker) refresh() []transition {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
		return cb.moveTo(StateHalfOpen)
	}
	return nil
}

func (cb *CircuitBreaker) failure() []transition {
	cb.lastFailure = cb.now()
	cb.failures++
	cb.successes = 0
	if cb.state == StateHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
		return cb.moveTo(StateOpen)
	}
	return nil
}

func (cb *CircuitBreaker) success() []transition {
	cb.failures = 0
	if cb.state != StateHalfOpen {
		return nil
	}
	cb.successes++
	if cb.successes >= cb.cfg.SuccessThreshold {
		return cb.moveTo(StateClosed)
	}
	return nil
}

func (cb *CircuitBreaker) moveTo(to State) []transition {
	from := cb.state
	if from == to {
		return nil
	}
	failures := cb.failures

	cb.state = to
	cb.generation++
	cb.failures, cb.successes, cb.probes = 0, 0, 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}

	ev := log.Info()
	if to == StateOpen {
		ev = log.Warn()
	}
	ev.Str("circuit_breaker", cb.cfg.Name).
		Stringer("from", from).
		Stringer("to", to).
		Int("failures", failures).
		Msg("circuit breaker state changed")

	return []transition{{from: from, to: to}}
}

func (cb *CircuitBreaker) notify(changes []transition) {
	if cb.cfg.OnStateChange == nil {
		return
	}
	for _, t := range changes {
		cb.cfg.OnStateChange(cb.cfg.Name, t.from, t.to)
	}
}

// State returns the current state. An expired open period reads as
// half-open.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	changes := cb.refresh()
	s := cb.state
	cb.mu.Unlock()

	cb.notify(changes)
	return s
}

// IsOpen reports whether calls are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a point-in-time snapshot of a breaker.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns a snapshot for readiness output.
func (cb *CircuitBreaker) GetStats() Stats {
	s := cb.State()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{
		State:        s.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		IsHealthy:    s == StateClosed,
	}
}
