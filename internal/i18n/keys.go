package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyUnsupportedMedia   = "error.unsupported_media_type"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyStore              = "error.store"
	ErrKeyComputation        = "error.computation"
	ErrKeyStateOrdering      = "error.state_ordering"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyConflict           = "error.conflict"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyRequestInFlight    = "error.request_in_flight"

	// Weighing specific messages.
	ErrKeyActiveSession  = "error.weight.active_session"
	ErrKeyNoOpenSession  = "error.weight.no_open_session"
	ErrKeyStandaloneOpen = "error.weight.standalone_open"
	ErrKeyInvalidSession = "error.weight.invalid_session_id"
	ErrKeyFileNotFound   = "error.batch.file_not_found"
	ErrKeyInvalidFile    = "error.batch.invalid_file"
)
