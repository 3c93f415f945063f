package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types persisted with weighing and registry changes.
const (
	ActionWeightIn    = "weight_in"
	ActionWeightOut   = "weight_out"
	ActionWeightNone  = "weight_none"
	ActionBatchImport = "batch_import"
)

// ValidAction reports whether a is a known audit action.
func ValidAction(a string) bool {
	switch a {
	case ActionWeightIn, ActionWeightOut, ActionWeightNone, ActionBatchImport:
		return true
	}
	return false
}

// ActionForDirection returns the audit action of a weighing direction.
func ActionForDirection(d Direction) string {
	switch d {
	case DirectionIn:
		return ActionWeightIn
	case DirectionOut:
		return ActionWeightOut
	default:
		return ActionWeightNone
	}
}

// LogEntry is a request or audit record stored in the log sink.
type LogEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path       string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	Operator   string                 `bson:"operator,omitempty" json:"operator,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Truck      string                 `bson:"truck,omitempty" json:"truck,omitempty"`
	SessionID  int64                  `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField sets one field, allocating Fields if needed.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into the entry.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// Audit history page bounds.
const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

// LogQueryOptions filters log sink queries. Zero values match everything.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	ActionType string
	Truck      string
	SessionID  int64
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// Normalize clamps Limit to [1, MaxLogLimit] and Skip to >= 0.
func (o LogQueryOptions) Normalize() LogQueryOptions {
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultLogLimit
	case o.Limit > MaxLogLimit:
		o.Limit = MaxLogLimit
	}
	if o.Skip < 0 {
		o.Skip = 0
	}
	return o
}

// LogPage is one page of audit history, newest first.
type LogPage struct {
	Entries []LogEntry `json:"entries"`
	Total   int64      `json:"total"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
}
