package http

import (
	"net/http"
	"time"

	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/gan-shmuel/weight-service/internal/middleware"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int // requests per RateWindow per client ip, 0 disables
	RateWindow        time.Duration
	AdminRateLimit    int // requests per RateWindow per operator on admin routes
	RequestTimeout    time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	// TokenService enables operator bearer tokens on admin routes. Leave it
	// nil to accept API keys only.
	TokenService service.TokenService

	adminLimiter *middleware.RateLimiter
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:         600,
		RateWindow:        time.Minute,
		AdminRateLimit:    30,
		RequestTimeout:    30 * time.Second,
		EnableIdempotency: true,
	}
}

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// NewRouter builds the engine. Health, metrics and swagger are always
// served; the weighing API is mounted at the root when handler is set.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(globalMiddleware(&cfg)...)

	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountSwagger(router, cfg.SwaggerUser, cfg.SwaggerPass)

	if handler == nil {
		return router
	}

	api := router.Group("", apiMiddleware(&cfg)...)
	if cfg.AdminRateLimit > 0 {
		cfg.adminLimiter = middleware.NewRateLimiter(cfg.AdminRateLimit, cfg.RateWindow)
	}
	mountRoutes(api, &cfg, NewWeightRoutes(handler))

	return router
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization",
			middleware.APIKeyHeader, middleware.IdempotencyKeyHeader, middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			middleware.RequestIDHeader, "X-Idempotency-Replayed",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// globalMiddleware runs on every route. Order matters: the request id and
// scoped logger come first so later layers can log with them.
func globalMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	}
	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).RateLimit())
	}
	return chain
}

func apiMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.Timeout(cfg.RequestTimeout)}
	if cfg.EnableIdempotency {
		chain = append(chain, middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}
	return chain
}

func mountSwagger(router *gin.Engine, user, pass string) {
	docs := router.Group("/swagger")
	if user != "" && pass != "" {
		docs.Use(gin.BasicAuth(gin.Accounts{user: pass}))
	}
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
