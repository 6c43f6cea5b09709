package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountsvc/apiserver/internal/services"
	"github.com/accountsvc/apiserver/internal/store"
	"github.com/accountsvc/apiserver/types"
)

// AccountHandler provides HTTP handlers for account registration,
// activation, lookup, and owner-scoped updates.
type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRouter registers account routes on the given router. Routes that
// require credentials run behind the verifier middleware; their guards
// translate missing or foreign identities into forbidden responses.
func AccountRouter(r chi.Router, accountService *services.AccountService, credentials func(http.Handler) http.Handler) {
	handler := NewAccountHandler(accountService)

	r.Post("/", handler.Register)
	r.Post("/token/{token}", handler.Activate)
	r.With(credentials).Get("/", handler.ListAccounts)
	r.Get("/{accountID}", handler.GetAccount)
	r.With(credentials).Put("/{accountID}", handler.UpdateAccount)
}

// Register creates a new inactive account and mails its activation token.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	err := h.accountService.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User created"})
}

// Activate redeems an activation token from the request path.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.accountService.Activate(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Account is activated"})
}

// ListAccounts returns a page of account summaries. Credentials required.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := accountFromContext(r.Context()); !ok {
		writeError(w, r, http.StatusForbidden, msgListForbidden)
		return
	}

	page, size, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accounts, total, err := h.accountService.List(r.Context(), offset, size)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, msgUnexpected)
		return
	}

	items := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, newAccountResponse(account))
	}

	writeJSON(w, http.StatusOK, AccountListResponse{
		Items: items,
		Page:  page,
		Size:  size,
		Total: total,
	})
}

// GetAccount returns a single account summary. Public.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, msgAccountNotFound)
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, msgAccountNotFound)
			return
		}
		writeError(w, r, http.StatusInternalServerError, msgUnexpected)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// UpdateAccount changes the username of the caller's own account. Any
// other case - no credentials, foreign account, inactive caller - is
// forbidden with the same response.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, r, http.StatusForbidden, msgUpdateForbidden)
		return
	}

	caller, ok := accountFromContext(r.Context())
	if !ok || caller.ID != id {
		writeError(w, r, http.StatusForbidden, msgUpdateForbidden)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	updated, err := h.accountService.UpdateUsername(r.Context(), id, req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(updated))
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateAccountRequest struct {
	Username string `json:"username"`
}

// AccountResponse is the public summary of an account.
type AccountResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountListResponse is the paginated list response payload.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int               `json:"total"`
}

// MessageResponse is a simple informational payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func newAccountResponse(account types.Account) AccountResponse {
	return AccountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	}
}
