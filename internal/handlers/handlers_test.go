package handlers_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accountsvc/apiserver/internal/handlers"
	"github.com/accountsvc/apiserver/internal/services"
	"github.com/accountsvc/apiserver/internal/store"
	"github.com/accountsvc/apiserver/types"
)

// -------- test fakes --------

type fakeRepo struct {
	nextID    int
	accounts  map[int]types.Account
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[int]types.Account{}}
}

func (f *fakeRepo) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (f *fakeRepo) GetByActivationToken(ctx context.Context, token string) (types.Account, error) {
	for _, account := range f.accounts {
		if account.Inactive && account.ActivationToken.Valid && account.ActivationToken.String == token {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	if _, err := f.GetByEmail(ctx, account.Email); err == nil {
		return types.Account{}, store.ErrDuplicateEmail
	}
	f.nextID++
	account.ID = f.nextID
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeRepo) Activate(ctx context.Context, id int) error {
	account, ok := f.accounts[id]
	if !ok || !account.Inactive {
		return store.ErrNotFound
	}
	account.Inactive = false
	account.ActivationToken = sql.NullString{}
	f.accounts[id] = account
	return nil
}

func (f *fakeRepo) UpdateUsername(ctx context.Context, id int, username string) (types.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	account.Username = username
	f.accounts[id] = account
	return account, nil
}

func (f *fakeRepo) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	accounts := make([]types.Account, 0, len(f.accounts))
	for id := 1; id <= f.nextID; id++ {
		if account, ok := f.accounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	total := len(accounts)
	if offset > len(accounts) {
		offset = len(accounts)
	}
	accounts = accounts[offset:]
	if limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, total, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeRepo) DeleteAll(ctx context.Context) error {
	f.accounts = map[int]types.Account{}
	return nil
}

type fakeMailer struct {
	fail bool
	sent []string
}

func (f *fakeMailer) SendActivation(ctx context.Context, to, token string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

// -------- harness --------

func newRouter(repo *fakeRepo, m *fakeMailer) *chi.Mux {
	svc := services.NewAccountService(repo, m)
	credentials := handlers.VerifyCredentials(svc)

	router := chi.NewRouter()
	router.Get("/healthz", handlers.Healthz)
	router.Route("/accounts", func(r chi.Router) {
		handlers.AccountRouter(r, svc, credentials)
	})
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, svc)
	})
	return router
}

func addAccount(t *testing.T, repo *fakeRepo, email string, inactive bool) types.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("P4ssword"), bcrypt.MinCost)
	require.NoError(t, err)

	account := types.Account{
		Username:     "user1",
		Email:        email,
		PasswordHash: string(hash),
		Inactive:     inactive,
	}
	if inactive {
		account.ActivationToken = sql.NullString{String: "tok-" + email, Valid: true}
	}
	created, err := repo.Create(context.Background(), account)
	require.NoError(t, err)
	return created
}

func doRequest(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
