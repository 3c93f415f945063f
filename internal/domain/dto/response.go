package dto

import (
	"net/http"
	"time"
)

const (
	// ErrCodeValidation indicates missing or malformed input.
	ErrCodeValidation = "validation"
	// ErrCodeConflict indicates an open session already exists.
	ErrCodeConflict = "conflict"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeStateOrdering indicates a ledger ordering violation.
	ErrCodeStateOrdering = "state_ordering"
	// ErrCodeComputation indicates a net weight computation failure.
	ErrCodeComputation = "computation"
	// ErrCodeStore indicates a store failure.
	ErrCodeStore = "store"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeUnsupportedMedia indicates a non-JSON request body.
	ErrCodeUnsupportedMedia = "unsupported_media_type"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
)

// ErrorResponse is the error body of every endpoint.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"an active in session already exists"`
	Kind      string            `json:"kind" example:"conflict"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates an ErrorResponse with the given kind and message.
func NewError(kind, message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the kind used when only a status is known.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusUnsupportedMediaType:
		return ErrCodeUnsupportedMedia
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// BatchWeightResponse reports an applied tare import.
type BatchWeightResponse struct {
	File     string `json:"file" example:"containers1.csv"`
	Imported int    `json:"imported" example:"12"`
} // @name BatchWeightResponse
