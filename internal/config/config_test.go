package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-list/backend/internal/config"
)

const testSecret = "test-secret-key-that-is-long-enough-0123"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.ExposeAllItems)
	assert.True(t, cfg.AllowAllOrigins())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "todo")
	t.Setenv("DB_NAME", "todo")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://example.com")
	t.Setenv("EXPOSE_ALL_ITEMS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.AllowAllOrigins())
	assert.True(t, cfg.ExposeAllItems)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": "", "DB_DRIVER": "sqlite3"}},
		{"short secret", map[string]string{"JWT_SECRET": "short", "DB_DRIVER": "sqlite3"}},
		{"unknown driver", map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "oracle"}},
		{"mysql without db name", map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "mysql", "DB_USER": "u", "DB_NAME": ""}},
		{"bad ttl", map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "sqlite3", "TOKEN_TTL": "seven days"}},
		{"bad bcrypt cost", map[string]string{"JWT_SECRET": testSecret, "DB_DRIVER": "sqlite3", "BCRYPT_COST": "99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}
