package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals that the account does not exist.
	ErrNotFound = errors.New("account: not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("account: email already registered")
	// ErrDuplicatePhone signals that the phone is already registered.
	ErrDuplicatePhone = errors.New("account: phone already registered")
)

// Repository handles durable access to account records. Phone arguments are
// always the canonical form; email lookups are case-insensitive.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByPhone(ctx context.Context, phone string) (Account, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Account, error)
	RecordFailure(ctx context.Context, id string, policy LockoutPolicy, now time.Time) (Account, error)
	RecordSuccess(ctx context.Context, id string, now time.Time, origin string) (Account, error)
}

// CreateParams contains write parameters for creating accounts.
type CreateParams struct {
	Email        string
	Phone        string
	FirstName    string
	LastName     string
	DisplayName  string
	PasswordHash string
	Role         Role
	Country      string
	DateOfBirth  *time.Time
	Gender       string
}

// ProfileUpdate carries partial profile mutations; nil leaves a column as is.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Phone       *string
	Country     *string
	DateOfBirth *time.Time
	Gender      *string
}

const accountColumns = `id, email, phone, first_name, last_name, display_name, password_hash, role, country,
		       date_of_birth, gender, is_active, failed_login_count, lock_until, last_login, last_login_origin,
		       created_at, updated_at`

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed account repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new account with an already-hashed password.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Account, error) {
	const insertSQL = `
		INSERT INTO accounts (email, phone, first_name, last_name, display_name, password_hash, role, country, date_of_birth, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, insertSQL,
		params.Email,
		params.Phone,
		params.FirstName,
		params.LastName,
		params.DisplayName,
		params.PasswordHash,
		params.Role,
		params.Country,
		params.DateOfBirth,
		params.Gender,
	))
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return Account{}, dupErr
		}
		return Account{}, fmt.Errorf("account: create: %w", err)
	}

	return acc, nil
}

// FindByID retrieves an account by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id string) (Account, error) {
	return r.findBy(ctx, `id = $1`, id)
}

// FindByEmail retrieves an account by email address, case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.findBy(ctx, `lower(email) = lower($1)`, email)
}

// FindByPhone retrieves an account by its canonical phone number.
func (r *PGRepository) FindByPhone(ctx context.Context, phone string) (Account, error) {
	return r.findBy(ctx, `phone = $1`, phone)
}

func (r *PGRepository) findBy(ctx context.Context, where string, arg any) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("account: find: %w", err)
	}

	return acc, nil
}

// UpdateProfile applies the present fields of update and returns the new row.
func (r *PGRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (Account, error) {
	const updateSQL = `
		UPDATE accounts
		SET first_name    = COALESCE($2, first_name),
		    last_name     = COALESCE($3, last_name),
		    display_name  = COALESCE($4, display_name),
		    phone         = COALESCE($5, phone),
		    country       = COALESCE($6, country),
		    date_of_birth = COALESCE($7, date_of_birth),
		    gender        = COALESCE($8, gender),
		    updated_at    = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, updateSQL,
		id,
		update.FirstName,
		update.LastName,
		update.DisplayName,
		update.Phone,
		update.Country,
		update.DateOfBirth,
		update.Gender,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		if dupErr := duplicateError(err); dupErr != nil {
			return Account{}, dupErr
		}
		return Account{}, fmt.Errorf("account: update profile: %w", err)
	}

	return acc, nil
}

// RecordFailure applies one failed attempt as a single conditional UPDATE:
// the threshold comparison, counter reset and lock arming all happen inside
// the statement, so concurrent failures serialize on the row and never
// under-count.
func (r *PGRepository) RecordFailure(ctx context.Context, id string, policy LockoutPolicy, now time.Time) (Account, error) {
	const failureSQL = `
		UPDATE accounts
		SET failed_login_count = CASE WHEN failed_login_count + 1 >= $2 THEN 0
		                              ELSE failed_login_count + 1 END,
		    lock_until         = CASE WHEN failed_login_count + 1 >= $2 THEN $3::timestamptz
		                              ELSE lock_until END,
		    updated_at         = $4
		WHERE id = $1
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, failureSQL, id, policy.Threshold, now.Add(policy.Duration), now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("account: record failure: %w", err)
	}

	return acc, nil
}

// RecordSuccess resets the failure state and stamps the last-login fields.
func (r *PGRepository) RecordSuccess(ctx context.Context, id string, now time.Time, origin string) (Account, error) {
	const successSQL = `
		UPDATE accounts
		SET failed_login_count = 0,
		    lock_until         = NULL,
		    last_login         = $2,
		    last_login_origin  = $3,
		    updated_at         = $2
		WHERE id = $1
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.pool.QueryRow(ctx, successSQL, id, now, origin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("account: record success: %w", err)
	}

	return acc, nil
}

// duplicateError maps a unique violation to the matching sentinel, keyed by
// the index name from the migration.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "accounts_phone_key":
		return ErrDuplicatePhone
	default:
		return ErrDuplicateEmail
	}
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acc         Account
		dateOfBirth *time.Time
		lockUntil   *time.Time
		lastLogin   *time.Time
		lastOrigin  *string
	)
	err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.Phone,
		&acc.FirstName,
		&acc.LastName,
		&acc.DisplayName,
		&acc.PasswordHash,
		&acc.Role,
		&acc.Country,
		&dateOfBirth,
		&acc.Gender,
		&acc.IsActive,
		&acc.FailedLoginCount,
		&lockUntil,
		&lastLogin,
		&lastOrigin,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}

	acc.DateOfBirth = dateOfBirth
	acc.LockUntil = lockUntil
	acc.LastLogin = lastLogin
	acc.LastLoginOrigin = lastOrigin
	return acc, nil
}
