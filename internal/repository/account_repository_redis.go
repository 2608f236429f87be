package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
)

const (
	redisKeyPrefix = "blog"
	// maxUpdateAttempts bounds optimistic retries when a watched account
	// key changes between read and write.
	maxUpdateAttempts = 10
)

func accountKey(id string) string {
	return fmt.Sprintf("%s:account:%s", redisKeyPrefix, id)
}

func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", redisKeyPrefix, email)
}

func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", redisKeyPrefix, username)
}

// redisAccount is the stored JSON shape. It differs from domain.Account so
// the password hash is persisted while staying out of API serialization.
type redisAccount struct {
	ID           string               `json:"id"`
	Email        string               `json:"email"`
	Username     string               `json:"username,omitempty"`
	FirstName    string               `json:"first_name,omitempty"`
	LastName     string               `json:"last_name,omitempty"`
	PasswordHash string               `json:"password_hash"`
	Status       domain.AccountStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toRedisAccount(a *domain.Account) redisAccount {
	return redisAccount{
		ID:           a.ID,
		Email:        a.Email,
		Username:     a.Username,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PasswordHash: a.PasswordHash,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (ra redisAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           ra.ID,
		Email:        ra.Email,
		Username:     ra.Username,
		FirstName:    ra.FirstName,
		LastName:     ra.LastName,
		PasswordHash: ra.PasswordHash,
		Status:       ra.Status,
		CreatedAt:    ra.CreatedAt,
		UpdatedAt:    ra.UpdatedAt,
	}
}

// RedisAccountRepository stores accounts as JSON documents with SETNX index
// keys for email and username. The index keys are the uniqueness arbiter.
type RedisAccountRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisAccountRepository wraps an existing client.
func NewRedisAccountRepository(client *redis.Client, logger *zap.Logger) *RedisAccountRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisAccountRepository{client: client, logger: logger}
}

var _ CredentialStore = (*RedisAccountRepository)(nil)

func (r *RedisAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.UpdatedAt = account.CreatedAt

	data, err := json.Marshal(toRedisAccount(account))
	if err != nil {
		return err
	}

	claimed, err := r.client.SetNX(ctx, emailIndexKey(account.Email), account.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("claim email index: %w", err)
	}
	if !claimed {
		return ErrEmailTaken
	}

	if account.HasUsername() {
		claimed, err = r.client.SetNX(ctx, usernameIndexKey(account.Username), account.ID, 0).Result()
		if err != nil || !claimed {
			r.releaseIndexes(ctx, account.ID, emailIndexKey(account.Email))
			if err != nil {
				return fmt.Errorf("claim username index: %w", err)
			}
			return ErrUsernameTaken
		}
	}

	if err := r.client.Set(ctx, accountKey(account.ID), data, 0).Err(); err != nil {
		keys := []string{emailIndexKey(account.Email)}
		if account.HasUsername() {
			keys = append(keys, usernameIndexKey(account.Username))
		}
		r.releaseIndexes(ctx, account.ID, keys...)
		return fmt.Errorf("store account: %w", err)
	}
	return nil
}

// releaseIndexes undoes index claims after a failed save. A failed release
// leaves the identifier reserved, so it is logged for manual cleanup.
func (r *RedisAccountRepository) releaseIndexes(ctx context.Context, accountID string, keys ...string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("release account index keys",
			zap.String("account_id", accountID),
			zap.Strings("keys", keys),
			zap.Error(err))
	}
}

// UpdatePasswordHash rewrites the stored record under WATCH, retrying when
// another writer touches the account between read and write.
func (r *RedisAccountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	key := accountKey(id)
	update := func(tx *redis.Tx) error {
		account, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		account.PasswordHash = passwordHash
		account.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(account)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, update, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update password hash for %s: %w", id, redis.TxFailedErr)
}

func (r *RedisAccountRepository) findByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := load(ctx, r.client, id)
	if err != nil {
		return nil, err
	}
	return account.toDomain(), nil
}

func (r *RedisAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findByIndex(ctx, emailIndexKey(email))
}

func (r *RedisAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findByIndex(ctx, usernameIndexKey(username))
}

func (r *RedisAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.client.Exists(ctx, emailIndexKey(email)).Result()
	return n > 0, err
}

func (r *RedisAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.client.Exists(ctx, usernameIndexKey(username)).Result()
	return n > 0, err
}

func (r *RedisAccountRepository) findByIndex(ctx context.Context, indexKey string) (*domain.Account, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return r.findByID(ctx, id)
}

func load(ctx context.Context, c redis.Cmdable, id string) (*redisAccount, error) {
	data, err := c.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var account redisAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
