package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "blog-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_BCRYPT_COST", "10")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing secret",
			env:  map[string]string{"AUTH_JWT_SECRET": "", "STORE_DRIVER": "memory"},
		},
		{
			name: "bcrypt cost too low",
			env:  map[string]string{"AUTH_JWT_SECRET": "s", "AUTH_BCRYPT_COST": "2", "STORE_DRIVER": "memory"},
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "postgres", "POSTGRES_DSN": ""},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "mongo"},
		},
		{
			name: "bad redis db",
			env:  map[string]string{"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "memory", "REDIS_DB": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAccessTokenTTLFallback(t *testing.T) {
	assert.Equal(t, time.Hour, AuthConfig{AccessTokenTTLMinutes: 0}.AccessTokenTTL())
	assert.Equal(t, time.Hour, AuthConfig{AccessTokenTTLMinutes: -5}.AccessTokenTTL())
}
