package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic in a later handler into a 500 with the standard
// error body. http.ErrAbortHandler is re-raised so net/http can drop the
// connection. Nothing is written when the handler already sent headers.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			zerolog.Ctx(c.Request.Context()).Error().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			msg := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
