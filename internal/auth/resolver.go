package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// IdentityResolver maps a login identifier to a single stored account.
type IdentityResolver struct {
	accounts repository.CredentialStore
}

// NewIdentityResolver builds a resolver over the credential store.
func NewIdentityResolver(accounts repository.CredentialStore) *IdentityResolver {
	return &IdentityResolver{accounts: accounts}
}

// Resolve looks the identifier up as an email first and, only when no
// account has that email, as a username. An email match always wins.
// It returns repository.ErrAccountNotFound when neither matches.
func (r *IdentityResolver) Resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, repository.ErrAccountNotFound
	}

	account, err := r.accounts.FindByEmail(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	return r.accounts.FindByUsername(ctx, identifier)
}
