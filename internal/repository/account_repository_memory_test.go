package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

func TestMemoryAccountRepository_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	account := newAccount("alice@x.com", "alice")
	require.NoError(t, repo.Save(ctx, account))

	require.NoError(t, repo.SetStatus(ctx, account.ID, domain.AccountStatusDisabled))

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found.IsActive())

	assert.ErrorIs(t, repo.SetStatus(ctx, "missing", domain.AccountStatusActive), ErrAccountNotFound)
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	account := newAccount("alice@x.com", "")
	require.NoError(t, repo.Save(ctx, account))

	found, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	found.PasswordHash = "tampered"

	again, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$hash", again.PasswordHash)
}
