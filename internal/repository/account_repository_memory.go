package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
)

// MemoryAccountRepository keeps accounts in process memory. It is used for
// local development and tests.
type MemoryAccountRepository struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	byEmail    map[string]string
	byUsername map[string]string
}

// NewMemoryAccountRepository returns an empty in-memory store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts:   make(map[string]domain.Account),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

var _ CredentialStore = (*MemoryAccountRepository)(nil)

func (r *MemoryAccountRepository) Save(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return ErrEmailTaken
	}
	if account.HasUsername() {
		if _, ok := r.byUsername[account.Username]; ok {
			return ErrUsernameTaken
		}
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.UpdatedAt = account.CreatedAt

	r.accounts[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	if account.HasUsername() {
		r.byUsername[account.Username] = account.ID
	}
	return nil
}

func (r *MemoryAccountRepository) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.get(id)
}

func (r *MemoryAccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.get(id)
}

func (r *MemoryAccountRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryAccountRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

// SetStatus changes an account's status. Administrative tooling and tests
// use it; no HTTP route exposes it.
func (r *MemoryAccountRepository) SetStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.Status = status
	r.accounts[id] = account
	return nil
}

// get returns a copy so callers never share the stored value. Caller holds the lock.
func (r *MemoryAccountRepository) get(id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}
