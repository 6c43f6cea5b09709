package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/accountsvc/apiserver/internal/services"
)

// Stable wire-level messages of the error taxonomy.
const (
	msgValidationFailure    = "Validation failure"
	msgIncorrectCredentials = "Incorrect credentials"
	msgAccountInactive      = "Account is inactive"
	msgUpdateForbidden      = "You are not authorized to update this user"
	msgListForbidden        = "You are not authorized to list accounts"
	msgAccountNotFound      = "Account not found"
	msgEmailFailure         = "Email failure"
	msgInvalidToken         = "This account is either active or the token is invalid"
	msgUnexpected           = "Unexpected error occurred"
	msgInvalidBody          = "Invalid request body"
)

// ErrorResponse is the standard error envelope. ValidationErrors is only
// present on validation failures.
type ErrorResponse struct {
	Path             string                    `json:"path"`
	Timestamp        int64                     `json:"timestamp"`
	Message          string                    `json:"message"`
	ValidationErrors services.ValidationErrors `json:"validationErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Path:      r.URL.Path,
		Timestamp: time.Now().UnixMilli(),
		Message:   message,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verrs services.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Path:             r.URL.Path,
		Timestamp:        time.Now().UnixMilli(),
		Message:          msgValidationFailure,
		ValidationErrors: verrs,
	})
}

// writeServiceError maps service failures shared by several routes.
// Route-specific kinds (authentication, authorization) are handled inline
// by their handlers.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, verr.Errors)
	case errors.Is(err, services.ErrEmailFailure):
		writeError(w, r, http.StatusBadGateway, msgEmailFailure)
	case errors.Is(err, services.ErrInvalidToken):
		writeError(w, r, http.StatusBadRequest, msgInvalidToken)
	default:
		writeError(w, r, http.StatusInternalServerError, msgUnexpected)
	}
}
