package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/accountsvc/apiserver/types"
)

// AccountRepository handles persistence for accounts.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, email, password_hash, inactive, activation_token, created_at, updated_at`

func scanAccount(row *sql.Row) (types.Account, error) {
	var account types.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.Inactive,
		&account.ActivationToken,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByActivationToken looks up a pending account by its activation token.
// Active accounts never match: their token has already been cleared.
func (r *AccountRepository) GetByActivationToken(ctx context.Context, token string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE activation_token = $1 AND inactive = TRUE`
	return scanAccount(r.db.QueryRowContext(ctx, query, token))
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `
		INSERT INTO accounts (username, email, password_hash, inactive, activation_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Inactive,
		account.ActivationToken,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Account{}, ErrDuplicateEmail
		}
		return types.Account{}, err
	}
	return account, nil
}

// Activate flips a pending account to active and clears its token in one
// statement, so the token can only ever be redeemed once.
func (r *AccountRepository) Activate(ctx context.Context, id int) error {
	const query = `
		UPDATE accounts
		SET inactive = FALSE,
			activation_token = NULL,
			updated_at = $2
		WHERE id = $1 AND inactive = TRUE`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateUsername(ctx context.Context, id int, username string) (types.Account, error) {
	const query = `
		UPDATE accounts
		SET username = $2,
			updated_at = $3
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, id, username, time.Now()))
}

func (r *AccountRepository) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY id
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	accounts := make([]types.Account, 0, limit)
	for rows.Next() {
		var account types.Account
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Email,
			&account.PasswordHash,
			&account.Inactive,
			&account.ActivationToken,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM accounts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll truncates the accounts table. Test teardown only.
func (r *AccountRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts`)
	return err
}
