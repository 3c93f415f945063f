package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader names the client retry key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader is set to "true" on replayed responses.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a finished response stays replayable.
	IdempotencyKeyTTL = 5 * time.Minute

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   *idempotencyCache
	Enabled bool
}

// DefaultIdempotencyConfig returns an enabled config with its own cache.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   newIdempotencyCache(IdempotencyKeyTTL),
		Enabled: true,
	}
}

// Idempotency makes keyed POSTs safe to retry. The first 2xx response for
// a key, method, path and body is replayed to later identical requests; a
// duplicate arriving while the first is still running gets 409. Non-2xx
// results are not kept, so the client may retry them.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) { c.Next() }
	}
	cache := cfg.Cache

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" || len(key) > maxIdempotencyKeyLength {
			c.Next()
			return
		}

		fingerprint, err := requestFingerprint(key, c.Request)
		if err != nil {
			c.Next()
			return
		}

		cached, started := cache.begin(fingerprint)
		if cached != nil {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		if !started {
			msg := i18n.GetTranslator().Translate(i18n.ErrKeyRequestInFlight, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewError(dto.ErrCodeConflict, msg).WithRequestID(GetRequestID(c)))
			return
		}

		tee := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tee

		var keep *cachedResponse
		defer func() { cache.finish(fingerprint, keep) }()

		c.Next()

		if status := tee.Status(); status >= 200 && status < 300 {
			keep = &cachedResponse{
				StatusCode:  status,
				ContentType: tee.Header().Get("Content-Type"),
				Body:        tee.body.Bytes(),
			}
		}
	}
}

// requestFingerprint hashes key with the method, path and body, then
// rewinds the body for the handler.
func requestFingerprint(key string, req *http.Request) (string, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body = io.NopCloser(bytes.NewReader(b))
		body = b
	}

	h := sha256.New()
	for _, part := range [][]byte{[]byte(key), []byte(req.Method), []byte(req.URL.Path)} {
		h.Write(part)
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// teeWriter copies the response body for the cache.
type teeWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
