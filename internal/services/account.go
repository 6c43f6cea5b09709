package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/accountsvc/apiserver/internal/mailer"
	"github.com/accountsvc/apiserver/internal/store"
	"github.com/accountsvc/apiserver/types"
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	GetByActivationToken(ctx context.Context, token string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Activate(ctx context.Context, id int) error
	UpdateUsername(ctx context.Context, id int, username string) (types.Account, error)
	List(ctx context.Context, offset, limit int) ([]types.Account, int, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

// AccountService encapsulates the identity use-cases: registration with
// activation email, token redemption, credential verification, and
// owner-scoped updates.
type AccountService struct {
	repo   AccountRepository
	mailer mailer.Mailer
}

func NewAccountService(repo AccountRepository, mailer mailer.Mailer) *AccountService {
	return &AccountService{repo: repo, mailer: mailer}
}

// RegisterInput is the raw registration payload before validation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates the input, persists the account inactive with a fresh
// activation token, and mails the token. If the mail cannot be handed off,
// the just-created row is deleted again so a failed registration leaves no
// trace.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	probe := in
	probe.Password = strings.TrimSpace(in.Password)
	verrs, err := s.validateRegistration(ctx, probe)
	if err != nil {
		return err
	}
	if len(verrs) > 0 {
		return &ValidationError{Errors: verrs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token, err := newActivationToken()
	if err != nil {
		return err
	}

	// Callers cannot self-activate: state is forced regardless of input.
	created, err := s.repo.Create(ctx, types.Account{
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    string(hash),
		Inactive:        true,
		ActivationToken: sql.NullString{String: token, Valid: true},
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// Lost a registration race; same outcome as the pre-write check.
			return &ValidationError{Errors: ValidationErrors{
				{Field: "email", Message: msgEmailInUse},
			}}
		}
		return err
	}

	if err := s.mailer.SendActivation(ctx, created.Email, token); err != nil {
		// Roll back so no partial account stays visible. A failed delete
		// must not mask the notification failure.
		_ = s.repo.Delete(ctx, created.ID)
		return ErrEmailFailure
	}
	return nil
}

// Activate redeems a single-use activation token. Unknown tokens and
// tokens of already-active accounts fail identically.
func (s *AccountService) Activate(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}

	account, err := s.repo.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if err := s.repo.Activate(ctx, account.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password collapse into ErrIncorrectCredentials; an inactive account with
// matching credentials is reported separately.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.Account, error) {
	account, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrIncorrectCredentials
		}
		return types.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return types.Account{}, ErrIncorrectCredentials
	}

	if account.Inactive {
		return types.Account{}, ErrAccountInactive
	}
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id int) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// UpdateUsername changes the username of an account. Authorization is the
// caller's responsibility; the same presence rule as registration applies.
func (s *AccountService) UpdateUsername(ctx context.Context, id int, username string) (types.Account, error) {
	username = strings.TrimSpace(username)
	if err := validation.Validate(username,
		validation.Required.Error(msgUsernameNull),
	); err != nil {
		return types.Account{}, &ValidationError{Errors: ValidationErrors{
			{Field: "username", Message: err.Error()},
		}}
	}
	return s.repo.UpdateUsername(ctx, id, username)
}
