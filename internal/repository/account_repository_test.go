package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

var accountRowColumns = []string{
	"id", "email", "username", "first_name", "last_name",
	"password_hash", "status", "created_at", "updated_at",
}

func TestAccountRepository_Save(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantID    string
	}{
		{
			name: "inserts and returns id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs("alice@x.com", "alice", "Alice", "", "hash", domain.AccountStatusActive, createdAt).
					WillReturnRows(pgxmock.NewRows([]string{"id", "updated_at"}).AddRow("acc-1", createdAt))
			},
			wantID: "acc-1",
		},
		{
			name: "email unique violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_key"})
			},
			wantErr: ErrEmailTaken,
		},
		{
			name: "username unique violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_username_key"})
			},
			wantErr: ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			account := &domain.Account{
				Email:        "alice@x.com",
				Username:     "alice",
				FirstName:    "Alice",
				PasswordHash: "hash",
				Status:       domain.AccountStatusActive,
				CreatedAt:    createdAt,
			}
			err = repo.Save(context.Background(), account)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, account.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_SaveUnexpectedError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	repo := NewAccountRepository(mock)
	err = repo.Save(context.Background(), &domain.Account{Email: "a@x.com"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountRowColumns).
					AddRow("acc-1", "alice@x.com", "alice", "Alice", "Liddell", "hash", domain.AccountStatusActive, now, now)
				mock.ExpectQuery(`FROM accounts WHERE email=`).
					WithArgs("alice@x.com").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM accounts WHERE email=`).
					WithArgs("alice@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.FindByEmail(context.Background(), "alice@x.com")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "acc-1", got.ID)
				assert.Equal(t, "alice", got.Username)
				assert.Equal(t, domain.AccountStatusActive, got.Status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_FindByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(accountRowColumns).
		AddRow("acc-1", "alice@x.com", "alice", "", "", "hash", domain.AccountStatusActive, now, now)
	mock.ExpectQuery(`FROM accounts WHERE username=`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := NewAccountRepository(mock).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Exists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewAccountRepository(mock)

	ok, err := repo.ExistsByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdatePasswordHash(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		wantErr error
	}{
		{name: "updated", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "missing account", result: pgxmock.NewResult("UPDATE", 0), wantErr: ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectExec(`UPDATE accounts SET password_hash`).
				WithArgs("new-hash", "acc-1").
				WillReturnResult(tt.result)

			err = NewAccountRepository(mock).UpdatePasswordHash(context.Background(), "acc-1", "new-hash")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
