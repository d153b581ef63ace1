package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 他の環境変数の影響を受けないように空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GO_ENV", "STORE_DRIVER", "DATABASE_URL",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE",
		"MONGO_URI", "MONGO_DB", "MONGO_TRANSACTIONS",
		"JWT_SECRET", "UPLOAD_DIR", "GROUP_MAX_MEMBERS", "CORS_ORIGINS",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME",
		"NATS_URL", "METRICS_PORT", "TRACING_COLLECTOR_HOST",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, 5, cfg.GroupMaxMembers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.MongoTransactions)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("GROUP_MAX_MEMBERS", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.GroupMaxMembers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"STORE_DRIVER": "sqlite"},
		"bad port":             {"POSTGRES_PORT": "abc"},
		"bad group max":        {"GROUP_MAX_MEMBERS": "0"},
		"bad bool":             {"MONGO_TRANSACTIONS": "maybe"},
		"prod without secret":  {"GO_ENV": "prod"},
		"admin short password": {"ADMIN_EMAIL": "admin@x.com", "ADMIN_PASSWORD": "short"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSNFields(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseURL)
}
