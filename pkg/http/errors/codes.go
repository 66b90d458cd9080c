package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeUnknownCategory  = "unknown_category"
	ErrCodeCategoryCount    = "invalid_category_count"
	ErrCodeInvalidPlayers   = "invalid_player_count"
	ErrCodeInvalidScore     = "invalid_multiplier"
	ErrCodeUnknownAnswer    = "unknown_answer"

	// Resource errors
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeQuestionNotFound = "question_not_found"

	// Game flow errors
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeQuestionAnswered  = "question_answered"
	ErrCodeNotRevealed       = "answer_not_revealed"
	ErrCodeStaleLoad         = "stale_load"
	ErrCodeLoadQueueFull     = "load_queue_full"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
