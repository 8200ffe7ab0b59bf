package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/services"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondJSON sends v as a JSON body with status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, errText, message string) {
	respondJSON(w, status, ErrorResponse{Error: errText, Message: message})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// respondServiceError maps service errors onto the HTTP error taxonomy.
func respondServiceError(w http.ResponseWriter, log *zap.SugaredLogger, err error, op string) {
	var verr *utils.ValidationError
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, "Diary entry not found", "")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found", "")
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "Access denied", "You do not have permission to access this entry.")
	case errors.Is(err, services.ErrEntryRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidVisibility),
		errors.Is(err, services.ErrContentRequired):
		respondError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "Invalid request", verr.Message)
	default:
		log.Errorw("Request failed", "op", op, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to "+op, "")
	}
}
