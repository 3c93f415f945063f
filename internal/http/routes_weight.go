package http

import (
	"github.com/gan-shmuel/weight-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// WeightRoutes handles weighing, item and container route registration.
type WeightRoutes struct {
	handler *Handler
}

// NewWeightRoutes creates a new WeightRoutes instance.
func NewWeightRoutes(handler *Handler) *WeightRoutes {
	return &WeightRoutes{handler: handler}
}

// RegisterPublicRoutes registers the scale-facing routes.
func (r *WeightRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/weight", r.handler.PostWeight)
	rg.GET("/weight", r.handler.ListWeighings)
	rg.GET("/session/:id", r.handler.GetSession)
	rg.GET("/item/:id", r.handler.GetItem)
	rg.GET("/unknown", r.handler.GetUnknown)
}

// RegisterProtectedRoutes registers the registry import and audit routes.
// They require an API key or operator token when auth is enabled.
func (r *WeightRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	admin := rg.Group("")
	if cfg.EnableAuth {
		admin.Use(middleware.AdminAuth(cfg.APIKeys, cfg.TokenService))
	}
	if cfg.adminLimiter != nil {
		admin.Use(cfg.adminLimiter.OperatorRateLimit())
	}
	admin.POST("/batch-weight", r.handler.PostBatchWeight)
	admin.GET("/audit", r.handler.GetAudit)
}

var _ RouteGroup = (*WeightRoutes)(nil)
