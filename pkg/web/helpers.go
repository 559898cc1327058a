package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes a single error message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondErrors(w, logger, status, []string{message})
}

// RespondErrors writes the {"errors": [...]} body with the given status.
func RespondErrors(w http.ResponseWriter, logger *slog.Logger, status int, messages []string) {
	RespondJSON(w, logger, status, ErrorResponse{Errors: messages})
}

// RespondStatus writes the generic status text of status as the only error.
func RespondStatus(w http.ResponseWriter, logger *slog.Logger, status int) {
	RespondError(w, logger, status, http.StatusText(status))
}

// ParseID extracts and validates the ID from the request path. Returns the ID and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	pathValueID := r.PathValue("id")
	id, err := uuid.Parse(pathValueID)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", pathValueID))
		return uuid.UUID{}, false
	}
	return id, true
}
