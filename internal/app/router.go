// Package app provides router configuration.
package app

import (
	"github.com/gan-shmuel/weight-service/config"
	"github.com/gan-shmuel/weight-service/internal/http"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/rs/zerolog/log"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	db *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var opts []http.HandlerOption
	if db.LoggingService != nil {
		opts = append(opts, http.WithLoggingService(db.LoggingService))
	}
	handler := http.NewHandler(services.Weighing, services.Registry, services.Importer, opts...)

	var store http.HealthChecker
	if db.Postgres != nil {
		store = db.Postgres
	}
	healthHandler := http.NewHealthHandler(store)
	if db.LedgerCircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("postgres", db.LedgerCircuitBreaker)
	}
	if db.Mongo != nil {
		healthHandler.RegisterChecker("mongodb", db.Mongo)
	}
	if db.LogsCircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("mongodb_logs", db.LogsCircuitBreaker)
	}

	routerCfg := http.DefaultRouterConfig()
	routerCfg.RateLimit = cfg.Server.RateLimit
	routerCfg.RateWindow = cfg.Server.RateWindow
	routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	routerCfg.EnableAuth = cfg.Auth.Enabled
	routerCfg.APIKeys = cfg.Auth.APIKeys
	routerCfg.EnableIdempotency = true
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass
	routerCfg.LoggingService = db.LoggingService
	if tokens := initializeTokenService(cfg.Auth); tokens != nil {
		routerCfg.TokenService = tokens
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

// initializeTokenService returns nil when no JWT secret is configured, which
// limits admin routes to API keys.
func initializeTokenService(cfg config.AuthConfig) *service.TokenServiceImpl {
	if !cfg.Enabled || cfg.JWTSecret == "" {
		return nil
	}
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		log.Error().Err(err).Msg("Invalid JWT configuration - operator tokens disabled")
		return nil
	}
	return tokens
}
