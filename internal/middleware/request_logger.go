package middleware

import (
	"strings"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// probePaths are logged to the console but never written to the log sink.
var probePaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger writes one line per request at a level derived from the
// status code. With a non-nil loggingService the same entry is queued for
// the log sink, except for health and metrics probes.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := requestEntry(c, time.Since(start))
		level := levelFor(entry.StatusCode)
		entry.Level = level.String()

		ev := zerolog.Ctx(c.Request.Context()).WithLevel(level).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Str("route", c.FullPath()).
			Int("status_code", entry.StatusCode).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("user_agent", entry.UserAgent)
		if entry.Operator != "" {
			ev = ev.Str("operator", entry.Operator)
		}
		if entry.Error != "" {
			ev = ev.Str("error", entry.Error)
		}
		ev.Msg(entry.Message)

		if loggingService != nil && !probePaths[strings.TrimSuffix(entry.Path, "/")] {
			persist(loggingService, entry)
		}
	}
}

func requestEntry(c *gin.Context, latency time.Duration) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Message:    "HTTP request",
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		StatusCode: c.Writer.Status(),
		Duration:   latency.Milliseconds(),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Operator:   GetOperator(c),
	}
	if last := c.Errors.Last(); last != nil {
		entry.Error = last.Error()
	}
	return entry
}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
