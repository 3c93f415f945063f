// Package middleware provides audit logging utilities.
package middleware

import (
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AuditEvent describes one ledger or registry change.
type AuditEvent struct {
	Action    string
	Message   string
	Truck     string
	SessionID int64
	Fields    map[string]interface{}
}

// AuditLog records a successful weighing or batch import.
func AuditLog(loggingService service.LoggingService, c *gin.Context, ev AuditEvent) {
	if loggingService == nil {
		return
	}
	persist(loggingService, auditEntry(c, "info", ev))
}

// AuditLogError records a rejected weighing or batch import.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, ev AuditEvent, err error) {
	if loggingService == nil {
		return
	}
	entry := auditEntry(c, "error", ev)
	if err != nil {
		entry.Error = err.Error()
		entry.WithField("kind", model.KindOf(err).String())
	}
	persist(loggingService, entry)
}

func auditEntry(c *gin.Context, level string, ev AuditEvent) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    ev.Message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Operator:   GetOperator(c),
		ActionType: ev.Action,
		Truck:      ev.Truck,
		SessionID:  ev.SessionID,
	}
	if len(ev.Fields) > 0 {
		entry.WithFields(ev.Fields)
	}
	return entry
}
