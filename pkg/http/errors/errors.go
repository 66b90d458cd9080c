// Package errors renders the JSON envelope every failed API call returns.
//
// Handlers never build bodies by hand: a game sentinel is mapped to one of the
// codes in codes.go and written through the helpers below, so a client can
// branch on the stable "error" code and show "message" to the host.
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response. Field names the request
// field that failed validation; Details carries structured context such as the
// per-dependency readiness report.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// RespondError writes the envelope with an explicit status.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// RespondValidationError reports the first struct-tag violation of a request body.
func RespondValidationError(w http.ResponseWriter, code, message, field string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: code, Message: message, Field: field})
}

// RespondErrorWithDetails is used by the readiness check to list which backing
// store is down.
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message, Details: details})
}

// RespondJSON writes a successful body, typically a session snapshot.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	writeJSON(w, status, body)
}

// RespondInternalError hides the cause; callers log it first.
func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// RespondNotFound covers unknown sessions and question ids that are not on the board.
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondConflict means the request was well formed but the session is in the
// wrong phase for it: a question already answered, a score before the reveal,
// or a board load that was superseded by Back or Restart.
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondBadRequest rejects input the session would never accept in any phase,
// like a player count outside 1..4 or an answer that is not one of the choices.
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondServiceUnavailable is returned when the board load queue is full or a
// dependency fails its ping; the client may retry.
func RespondServiceUnavailable(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusServiceUnavailable, code, message)
}
