//go:build !integration

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gan-shmuel/weight-service/internal/circuitbreaker"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

func healthy() HealthChecker {
	return checkerFunc(func(context.Context) error { return nil })
}

func failing(msg string) HealthChecker {
	return checkerFunc(func(context.Context) error { return errors.New(msg) })
}

func openBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, Name: "postgres"})
	_ = cb.Execute(context.Background(), func() error { return errors.New("down") })
	require.True(t, cb.IsOpen())
	return cb
}

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		store          HealthChecker
		expectedStatus int
		expectedBody   string
	}{
		{name: "store reachable", store: healthy(), expectedStatus: http.StatusOK, expectedBody: "OK"},
		{name: "store unreachable", store: failing("connection refused"), expectedStatus: http.StatusInternalServerError, expectedBody: "Failure"},
		{name: "no store", store: nil, expectedStatus: http.StatusInternalServerError, expectedBody: "Failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewHealthHandler(tt.store), "/health")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := serve(NewHealthHandler(failing("down")), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		setupHandler   func(t *testing.T) *HealthHandler
		expectedStatus int
		expectedChecks map[string]interface{}
	}{
		{
			name: "no checkers",
			setupHandler: func(*testing.T) *HealthHandler {
				return NewHealthHandler(nil)
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]interface{}{"service": "ok"},
		},
		{
			name: "all dependencies healthy",
			setupHandler: func(*testing.T) *HealthHandler {
				h := NewHealthHandler(healthy())
				h.RegisterChecker("mongodb", healthy())
				h.RegisterCircuitBreaker("postgres", circuitbreaker.New(circuitbreaker.DefaultConfig()))
				return h
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]interface{}{"postgres": "ok", "mongodb": "ok", "postgres_circuit": "closed"},
		},
		{
			name: "failing checker degrades",
			setupHandler: func(*testing.T) *HealthHandler {
				h := NewHealthHandler(healthy())
				h.RegisterChecker("mongodb", failing("server selection timeout"))
				return h
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]interface{}{"postgres": "ok", "mongodb": "server selection timeout"},
		},
		{
			name: "open circuit degrades",
			setupHandler: func(t *testing.T) *HealthHandler {
				h := NewHealthHandler(healthy())
				h.RegisterCircuitBreaker("postgres", openBreaker(t))
				return h
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]interface{}{"postgres": "ok", "postgres_circuit": "open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.setupHandler(t), "/readyz")

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body struct {
				Status string                 `json:"status"`
				Checks map[string]interface{} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedChecks, body.Checks)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "degraded", body.Status)
			}
		})
	}
}

func TestHealthHandler_ReadinessRespectsTimeout(t *testing.T) {
	h := NewHealthHandler(checkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	w := serve(h, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
