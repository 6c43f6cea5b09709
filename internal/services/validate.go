package services

import (
	"context"
	"errors"

	"github.com/accountsvc/apiserver/internal/store"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	msgUsernameNull = "Username cannot be null"
	msgEmailNull    = "Email cannot be null"
	msgEmailInvalid = "Email is not valid"
	msgEmailInUse   = "Email in use"
	msgPasswordNull = "Password cannot be null"
)

// validateRegistration runs the registration rule chains. Fields are
// checked independently so every failing field is reported, but each
// field stops at its first failing rule. The email uniqueness lookup runs
// only once the syntax rules have passed.
//
// The returned error is reserved for repository faults; rule failures are
// reported through the ValidationErrors set.
func (s *AccountService) validateRegistration(ctx context.Context, in RegisterInput) (ValidationErrors, error) {
	var errs ValidationErrors

	if err := validation.Validate(in.Username,
		validation.Required.Error(msgUsernameNull),
	); err != nil {
		errs = append(errs, FieldError{Field: "username", Message: err.Error()})
	}

	if err := validation.Validate(in.Email,
		validation.Required.Error(msgEmailNull),
		is.Email.Error(msgEmailInvalid),
	); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: err.Error()})
	} else {
		_, err := s.repo.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			errs = append(errs, FieldError{Field: "email", Message: msgEmailInUse})
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	if err := validation.Validate(in.Password,
		validation.Required.Error(msgPasswordNull),
	); err != nil {
		errs = append(errs, FieldError{Field: "password", Message: err.Error()})
	}

	return errs, nil
}
