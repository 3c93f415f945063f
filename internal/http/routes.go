package http

import (
	"github.com/gin-gonic/gin"
)

// PublicRouteGroup registers routes every scale or client may call.
type PublicRouteGroup interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// ProtectedRouteGroup registers routes that sit behind admin auth and the
// operator rate limit.
type ProtectedRouteGroup interface {
	RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// RouteGroup is a feature that owns both public and protected routes.
type RouteGroup interface {
	PublicRouteGroup
	ProtectedRouteGroup
}

// mountRoutes registers every group on rg. Public routes of all groups go
// first so admin middleware never wraps them.
func mountRoutes(rg *gin.RouterGroup, cfg *RouterConfig, groups ...RouteGroup) {
	for _, g := range groups {
		g.RegisterPublicRoutes(rg)
	}
	for _, g := range groups {
		g.RegisterProtectedRoutes(rg, cfg)
	}
}
