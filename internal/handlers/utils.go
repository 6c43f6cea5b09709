package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/accountsvc/apiserver/types"
)

type contextKey string

const contextAccountKey contextKey = "account"

const (
	defaultPage = 1
	defaultSize = 10
	maxSize     = 100
)

// accountFromContext returns the account attached by the credential
// verifier, if the request carried a valid active credential pair.
func accountFromContext(ctx context.Context) (types.Account, bool) {
	account, ok := ctx.Value(contextAccountKey).(types.Account)
	return account, ok
}

func parsePagination(r *http.Request) (page, size, offset int, err error) {
	page = defaultPage
	size = defaultSize

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, errors.New("invalid page")
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 1 {
			return 0, 0, 0, errors.New("invalid size")
		}
	}

	if size > maxSize {
		size = maxSize
	}

	offset = (page - 1) * size
	return page, size, offset, nil
}

func parseAccountID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "accountID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid account id")
	}
	return id, nil
}
