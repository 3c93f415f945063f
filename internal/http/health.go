package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gan-shmuel/weight-service/internal/circuitbreaker"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 3 * time.Second

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store           HealthChecker
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// NewHealthHandler creates a new HealthHandler. store answers GET /health
// and may be nil, in which case /health always reports Failure.
func NewHealthHandler(store HealthChecker) *HealthHandler {
	h := &HealthHandler{
		store:           store,
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
	if store != nil {
		h.checkers["postgres"] = store
	}
	return h
}

// RegisterChecker adds a dependency to the readiness probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Health handles the store connectivity probe.
// @Summary     Store connectivity probe
// @Description Runs SELECT 1 against the ledger store.
// @Tags        Health
// @Produce     plain
// @Success     200 {string} string "OK"
// @Failure     500 {string} string "Failure"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store == nil || h.store.HealthCheck(c.Request.Context()) != nil {
		c.String(http.StatusInternalServerError, "Failure")
		return
	}
	c.String(http.StatusOK, "OK")
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the process is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Checks every registered dependency concurrently and reports circuit breaker states.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		healthy = true
		checks  = make(map[string]interface{}, len(h.checkers)+len(h.circuitBreakers))
	)

	// Failures are recorded, not returned, so one slow dependency does not
	// cancel the others.
	var g errgroup.Group
	for name, checker := range h.checkers {
		g.Go(func() error {
			err := checker.HealthCheck(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[name] = err.Error()
				healthy = false
				return nil
			}
			checks[name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			healthy = false
		}
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	status, label := http.StatusOK, "ok"
	if !healthy {
		status, label = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(status, gin.H{"status": label, "checks": checks})
}
