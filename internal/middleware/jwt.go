// Package middleware provides JWT authentication middleware.
package middleware

import (
	"strings"

	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// JWTAuth returns a middleware that validates operator bearer tokens.
func JWTAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		operator := claims.Name
		if operator == "" {
			operator = claims.Subject
		}
		c.Set(OperatorKey, operator)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}
