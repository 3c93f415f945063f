//go:build !integration

package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gan-shmuel/weight-service/config"
	"github.com/gan-shmuel/weight-service/internal/circuitbreaker"
	httpapi "github.com/gan-shmuel/weight-service/internal/http"
	"github.com/gan-shmuel/weight-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponents(t *testing.T) (*ServiceComponents, *DatabaseComponents) {
	t.Helper()
	db := &DatabaseComponents{
		Tx:                   &mocks.PassthroughTxRunner{},
		Sessions:             mocks.NewMockSessionsRepository(t),
		Containers:           &mocks.MockContainersRepository{},
		LedgerCircuitBreaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
	return InitializeServices(db, config.BatchConfig{InputDir: t.TempDir()}), db
}

func TestInitializeRouter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		validate func(*testing.T, *RouterComponents)
	}{
		{
			name: "maps server settings",
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:      100,
					RateWindow:     time.Minute,
					RequestTimeout: 10 * time.Second,
					CORSOrigins:    []string{"http://scale.local"},
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components.Handler)
				assert.NotNil(t, components.HealthHandler)
				assert.Equal(t, 100, components.Config.RateLimit)
				assert.Equal(t, time.Minute, components.Config.RateWindow)
				assert.Equal(t, 10*time.Second, components.Config.RequestTimeout)
				assert.Equal(t, []string{"http://scale.local"}, components.Config.CORSOrigins)
				assert.True(t, components.Config.EnableIdempotency)
				assert.False(t, components.Config.EnableAuth)
				assert.Nil(t, components.Config.TokenService)
			},
		},
		{
			name: "api keys only",
			cfg: config.Config{
				Auth: config.AuthConfig{Enabled: true, APIKeys: map[string]bool{"k": true}},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.True(t, components.Config.EnableAuth)
				assert.True(t, components.Config.APIKeys["k"])
				assert.Nil(t, components.Config.TokenService)
			},
		},
		{
			name: "operator tokens",
			cfg: config.Config{
				Auth: config.AuthConfig{Enabled: true, JWTSecret: "secret", JWTIssuer: "weight-service"},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				require.NotNil(t, components.Config.TokenService)
				token, err := components.Config.TokenService.Issue("op", "Operator", time.Minute)
				require.NoError(t, err)
				_, err = components.Config.TokenService.Verify(token)
				assert.NoError(t, err)
			},
		},
		{
			name: "secret ignored when auth disabled",
			cfg: config.Config{
				Auth: config.AuthConfig{JWTSecret: "secret"},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.Nil(t, components.Config.TokenService)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, db := testComponents(t)
			tt.validate(t, InitializeRouter(services, db, tt.cfg))
		})
	}
}

func TestInitializeRouter_HealthWithoutStore(t *testing.T) {
	services, db := testComponents(t)
	components := InitializeRouter(services, db, config.Config{})
	router := httpapi.NewRouter(components.Handler, components.HealthHandler, components.Config)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres_circuit":"closed"`)
}
