package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/csemotors/dealership/internal/core/domain"
)

const accountColumns = `account_id, account_firstname, account_lastname, account_email, account_type`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account with the Client role.
func (r *AccountRepository) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*domain.Account, error) {
	const op = "postgres.AccountRepository.Create"

	query := `INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
			  VALUES ($1, $2, $3, $4, 'Client')
			  RETURNING ` + accountColumns
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, firstName, lastName, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// FindCredentials loads the account together with its password hash.
func (r *AccountRepository) FindCredentials(ctx context.Context, email string) (*domain.Credentials, error) {
	const op = "postgres.AccountRepository.FindCredentials"

	query := `SELECT ` + accountColumns + `, account_password FROM account WHERE account_email = $1`

	var (
		c    domain.Credentials
		role string
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &role, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	const op = "postgres.AccountRepository.FindByID"

	query := `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const op = "postgres.AccountRepository.FindByEmail"

	query := `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// EmailExists reports whether any account is registered under email.
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "postgres.AccountRepository.EmailExists"

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM account WHERE account_email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// List returns every account ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const op = "postgres.AccountRepository.List"

	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM account ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accounts, nil
}

// UpdateInfo writes names, email and role and returns the stored row.
func (r *AccountRepository) UpdateInfo(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
	const op = "postgres.AccountRepository.UpdateInfo"

	query := `UPDATE account
			  SET account_firstname = $1, account_lastname = $2, account_email = $3, account_type = $4
			  WHERE account_id = $5
			  RETURNING ` + accountColumns
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query,
		upd.FirstName, upd.LastName, upd.Email, upd.Role.String(), upd.ID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrAccountNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// UpdatePassword stores a new hash for the account.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "postgres.AccountRepository.UpdatePassword"

	res, err := r.db.ExecContext(ctx,
		`UPDATE account SET account_password = $1 WHERE account_id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		acc  domain.Account
		role string
	)
	if err := row.Scan(&acc.ID, &acc.FirstName, &acc.LastName, &acc.Email, &role); err != nil {
		return nil, err
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	acc.Role = r
	return &acc, nil
}
