package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountsvc/apiserver/internal/services"
)

// AuthHandler verifies basic credential pairs at the login endpoint.
type AuthHandler struct {
	accountService *services.AccountService
}

func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// AuthRouter registers the login route on the given router.
func AuthRouter(r chi.Router, accountService *services.AccountService) {
	handler := NewAuthHandler(accountService)

	r.Post("/", handler.Login)
}

// VerifyCredentials decodes the basic-auth header and, when the pair
// verifies against an active account, attaches that account to the request
// context. It never rejects on its own: requests without valid credentials
// continue unauthenticated and the route's guard decides the outcome.
// Credentials are re-verified on every request; no session state is kept.
func VerifyCredentials(accountService *services.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			account, err := accountService.Authenticate(r.Context(), email, password)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextAccountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Login verifies credentials and returns the account's id and username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	account, err := h.accountService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncorrectCredentials):
			writeError(w, r, http.StatusUnauthorized, msgIncorrectCredentials)
		case errors.Is(err, services.ErrAccountInactive):
			writeError(w, r, http.StatusForbidden, msgAccountInactive)
		default:
			writeError(w, r, http.StatusInternalServerError, msgUnexpected)
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		ID:       account.ID,
		Username: account.Username,
	})
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries exactly the two fields echoed on successful login.
type AuthResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
