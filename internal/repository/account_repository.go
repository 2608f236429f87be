package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/spec-kit/blog-service/internal/domain"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// Unique constraint names declared in migrations/001_create_accounts.sql.
const (
	accountsEmailConstraint    = "accounts_email_key"
	accountsUsernameConstraint = "accounts_username_key"
)

// CredentialStore defines persistence access for accounts. Implementations
// enforce email and username uniqueness at write time and report a
// violation as ErrEmailTaken or ErrUsernameTaken.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, account *domain.Account) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// pgxPool is the subset of *pgxpool.Pool the repository needs.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type accountRepository struct {
	pool pgxPool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool pgxPool) CredentialStore {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, email, COALESCE(username, ''), first_name, last_name, password_hash, status, created_at, updated_at`

func (r *accountRepository) Save(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, username, first_name, last_name, password_hash, status, created_at, updated_at)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $7)
        RETURNING id, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.Username,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.Status,
		account.CreatedAt,
	).Scan(&account.ID, &account.UpdatedAt)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case accountsEmailConstraint:
			return ErrEmailTaken
		case accountsUsernameConstraint:
			return ErrUsernameTaken
		}
	}
	return oops.With("operation", "save account").Wrap(err)
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE accounts SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return oops.With("operation", "update password hash").With("account_id", id).Wrap(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by email", `SELECT `+accountColumns+` FROM accounts WHERE email=$1`, email)
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by username", `SELECT `+accountColumns+` FROM accounts WHERE username=$1`, username)
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "check email", `SELECT EXISTS(SELECT 1 FROM accounts WHERE email=$1)`, email)
}

func (r *accountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "check username", `SELECT EXISTS(SELECT 1 FROM accounts WHERE username=$1)`, username)
}

func (r *accountRepository) findOne(ctx context.Context, op, query string, arg string) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.FirstName,
		&account.LastName,
		&account.PasswordHash,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, oops.With("operation", op).Wrap(err)
	}
	return &account, nil
}

func (r *accountRepository) exists(ctx context.Context, op, query string, arg string) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, oops.With("operation", op).Wrap(err)
	}
	return found, nil
}
