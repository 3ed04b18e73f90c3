package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// envelope is the wire shape for every JSON response. Message and Data are
// omitted when empty so success payloads stay minimal.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Message: message})
}

// writeLocked carries the unlock timestamp so clients can show a countdown
// instead of a bare failure.
func writeLocked(w http.ResponseWriter, unlockAt time.Time, failedAttempts int) {
	writeJSON(w, http.StatusLocked, envelope{
		Success: false,
		Message: "Account temporarily locked due to repeated failed logins",
		Data: map[string]any{
			"unlockAt":       unlockAt,
			"failedAttempts": failedAttempts,
		},
	})
}
