package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedisAccountRepository_ReleaseIndexesLogsFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	core, logs := observer.New(zap.ErrorLevel)
	repo := NewRedisAccountRepository(client, zap.New(core))

	mr.Close()
	repo.releaseIndexes(context.Background(), "acc-1", emailIndexKey("alice@x.com"))

	entries := logs.FilterMessage("release account index keys").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "acc-1", fields["account_id"])
	assert.Contains(t, fields, "error")
}

func TestRedisAccountRepository_ReleaseIndexesQuietOnSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	core, logs := observer.New(zap.ErrorLevel)
	repo := NewRedisAccountRepository(client, zap.New(core))

	key := emailIndexKey("alice@x.com")
	require.NoError(t, mr.Set(key, "acc-1"))
	repo.releaseIndexes(context.Background(), "acc-1", key)

	assert.False(t, mr.Exists(key))
	assert.Zero(t, logs.Len())
}
