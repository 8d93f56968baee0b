// Package respond writes the JSON envelopes shared by every API handler.
// Failures are rendered as {"msg": "..."}.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"notesapp/internal/apperr"
)

func JSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func Message(w http.ResponseWriter, msg string, status int) {
	JSON(w, map[string]string{"msg": msg}, status)
}

// Error maps err to a status and message. Classified errors expose their
// message; anything else is logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	ae, ok := apperr.As(err)
	if !ok || ae.Type == apperr.Internal {
		log.ErrorContext(r.Context(), op+" failed", "error", err)
		Message(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if ae.Err != nil {
		log.DebugContext(r.Context(), op+" rejected", "error", err)
	}
	Message(w, ae.Message, ae.StatusCode())
}
