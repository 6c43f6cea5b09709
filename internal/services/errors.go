package services

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	// ErrIncorrectCredentials is returned when the email is unknown or the
	// password does not match. The two cases are deliberately
	// indistinguishable to the caller.
	ErrIncorrectCredentials = errors.New("incorrect credentials")

	// ErrAccountInactive is returned when credentials verify but the
	// account has not redeemed its activation token yet.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidToken is returned for unknown, stale, or already-redeemed
	// activation tokens. All three cases look the same to the caller.
	ErrInvalidToken = errors.New("invalid activation token")

	// ErrEmailFailure is returned when the activation email could not be
	// handed to the notifier. The registration has been rolled back.
	ErrEmailFailure = errors.New("activation email delivery failed")
)

// FieldError is a single failed validation rule: the input field and the
// human-readable message of the first rule that rejected it.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors is the ordered field -> message set produced by the
// registration validation pipeline. Order follows the rule chain
// (username, email, password), one message per field.
type ValidationErrors []FieldError

// Get returns the message recorded for a field, if any.
func (v ValidationErrors) Get(field string) (string, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// MarshalJSON renders the set as a JSON object whose members appear in
// rule-chain order.
func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(fe.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValidationError carries the full error set of a rejected input. It is
// recoverable: the caller fixes the fields and retries.
type ValidationError struct {
	Errors ValidationErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
