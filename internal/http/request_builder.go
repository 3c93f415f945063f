package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gan-shmuel/weight-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrUnsupportedMediaType is returned for request bodies that are not JSON.
var ErrUnsupportedMediaType = errors.New("content type must be application/json")

// Validator is implemented by request bodies that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// bindJSON decodes a JSON request body into a new T. It fails with
// ErrUnsupportedMediaType unless Content-Type is application/json and runs
// Validate when T implements Validator.
func bindJSON[T any](c *gin.Context) (*T, error) {
	if !isJSON(c.GetHeader("Content-Type")) {
		return nil, ErrUnsupportedMediaType
	}
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// ResponseBuilder writes handler responses. Success bodies are written as is,
// domain failures are left to the ErrorHandler middleware.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// OK writes a 200 JSON response.
func (b *ResponseBuilder) OK(data interface{}) {
	b.c.JSON(http.StatusOK, data)
}

// Fail records a domain error for the ErrorHandler middleware and stops
// the handler chain.
func (b *ResponseBuilder) Fail(err error) {
	_ = b.c.Error(err)
	b.c.Abort()
}

// Error writes a transport-level error with a translated message. A
// non-nil cause is attached to the context and echoed under details.
func (b *ResponseBuilder) Error(status int, messageKey string, cause error) {
	msg := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	resp := dto.NewError(dto.ErrCodeFromStatus(status), msg).
		WithRequestID(middleware.GetRequestID(b.c))
	if cause != nil {
		_ = b.c.Error(cause)
		resp.Details = map[string]string{"cause": cause.Error()}
	}
	b.c.AbortWithStatusJSON(status, resp)
}

// BadRequest is a shorthand for request decoding failures. A non-JSON body
// is answered with 415.
func (b *ResponseBuilder) BadRequest(err error) {
	if errors.Is(err, ErrUnsupportedMediaType) {
		b.Error(http.StatusUnsupportedMediaType, i18n.ErrKeyUnsupportedMedia, nil)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}
