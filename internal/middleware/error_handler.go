package middleware

import (
	"errors"
	"net/http"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gan-shmuel/weight-service/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler returns a middleware that handles gin context errors.
// Handlers report failures with c.Error and return without writing; the last
// error is logged with its cause and rendered as an ErrorResponse.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if c.Writer.Written() {
			status = c.Writer.Status()
		}
		requestID := GetRequestID(c)

		log := logger.Logger()
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("kind", model.KindOf(err).String()).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			c.JSON(status, ErrorBody(c, err))
		}
	}
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	var de *model.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindConflict:
		return http.StatusConflict
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the client-facing error response for err. Store failures
// and unclassified errors never expose their cause.
func ErrorBody(c *gin.Context, err error) dto.ErrorResponse {
	locale := i18n.GetLocale(c)
	t := i18n.GetTranslator()

	var de *model.Error
	if !errors.As(err, &de) {
		return dto.NewError(dto.ErrCodeInternal, t.Translate(i18n.ErrKeyInternalError, locale)).
			WithRequestID(GetRequestID(c))
	}

	message := de.Message
	switch {
	case de.Message == model.MsgActiveSession:
		message = t.Translate(i18n.ErrKeyActiveSession, locale)
	case de.Message == model.MsgNoOpenSession:
		message = t.Translate(i18n.ErrKeyNoOpenSession, locale)
	case de.Message == model.MsgStandaloneOpen:
		message = t.Translate(i18n.ErrKeyStandaloneOpen, locale)
	case de.Kind == model.KindStore:
		message = t.Translate(i18n.ErrKeyStore, locale)
	case de.Kind == model.KindStateOrdering:
		message = t.Translate(i18n.ErrKeyStateOrdering, locale)
	case message == "":
		message = t.Translate(kindKey(de.Kind), locale)
	}

	return dto.NewError(de.Kind.String(), message).WithRequestID(GetRequestID(c))
}

func kindKey(k model.Kind) string {
	switch k {
	case model.KindValidation:
		return i18n.ErrKeyInvalidRequest
	case model.KindConflict:
		return i18n.ErrKeyConflict
	case model.KindNotFound:
		return i18n.ErrKeyNotFound
	case model.KindComputation:
		return i18n.ErrKeyComputation
	default:
		return i18n.ErrKeyInternalError
	}
}
