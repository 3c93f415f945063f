// Package middleware provides HTTP middleware components for the weight service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// ContextKey namespaces values stored on the gin context.
type ContextKey string

// RequestIDKey holds the correlation id on the gin context.
const RequestIDKey ContextKey = "request_id"

// RequestID tags every request with a correlation id. A client id is kept
// when it is printable ASCII of at most 128 bytes; anything else is replaced
// by a fresh UUID. The id is echoed in the response header and bound to a
// request-scoped logger reachable through zerolog.Ctx.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		scoped := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(scoped.WithContext(c.Request.Context()))

		c.Set(string(RequestIDKey), id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the correlation id of c, or "" outside RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}

func acceptableID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for _, b := range []byte(id) {
		if b <= ' ' || b > '~' {
			return false
		}
	}
	return true
}
