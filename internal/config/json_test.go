package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"database_driver": "pgx",
		"database_dsn":    "postgres://app:app@db:5432/vault",
		"session_backend": "redis",
		"session_ttl":     "45m",
		"redis_addr":      "redis:6379",
		"redis_password":  "password",
		"redis_db":        1,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "pgx", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://app:app@db:5432/vault", cfg.DatabaseDSN)
		assert.Equal(t, "redis", cfg.SessionBackend)
		assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "password", cfg.RedisPassword)
		assert.Equal(t, 1, cfg.RedisDB)
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "securevault.db", cfg.DatabaseDSN)
	})

	t.Run("panics on missing file", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "missing.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
