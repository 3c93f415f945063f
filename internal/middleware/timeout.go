package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Timeout bounds the request context by d. Store calls observe the deadline;
// a handler that returns after it expired without writing a response gets a
// 504. A non-positive d leaves the context unbounded.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		requestID := GetRequestID(c)
		log.Warn().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Dur("timeout", d).
			Msg("Request deadline exceeded")

		message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusGatewayTimeout,
			dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(requestID))
	}
}
