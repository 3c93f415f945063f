package middleware

import (
	"net/http"
	"strings"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// APIKeyHeader and APIKeyQuery carry an API key; the header wins.
	APIKeyHeader = "X-API-Key"
	APIKeyQuery  = "api_key"

	// OperatorKey holds the authenticated operator name in the gin context.
	OperatorKey = "operator"
	// ClaimsKey holds the verified *service.OperatorClaims of a bearer token.
	ClaimsKey = "operator_claims"

	apiKeyOperator = "api-key"
)

// APIKeyAuth admits requests carrying one of validKeys in the X-API-Key
// header or the api_key query parameter. An empty key set admits everyone.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}
		key := apiKeyFrom(c)
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}
		admitAPIKey(c, validKeys, key)
	}
}

// AdminAuth accepts either a configured API key or an operator bearer token.
// A presented API key is final: a wrong key is rejected even when a valid
// token is also sent.
func AdminAuth(validKeys map[string]bool, tokens service.TokenService) gin.HandlerFunc {
	if tokens == nil {
		return APIKeyAuth(validKeys)
	}
	bearer := JWTAuth(tokens)

	return func(c *gin.Context) {
		if key := apiKeyFrom(c); key != "" {
			admitAPIKey(c, validKeys, key)
			return
		}
		bearer(c)
	}
}

func admitAPIKey(c *gin.Context, validKeys map[string]bool, key string) {
	if !validKeys[key] {
		abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
		return
	}
	c.Set(OperatorKey, apiKeyOperator)
	c.Next()
}

// GetOperator returns the authenticated operator, or "" for anonymous requests.
func GetOperator(c *gin.Context) string {
	return c.GetString(OperatorKey)
}

func apiKeyFrom(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if key == "" {
		key = c.Query(APIKeyQuery)
	}
	return key
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, msg).WithRequestID(GetRequestID(c)))
}
