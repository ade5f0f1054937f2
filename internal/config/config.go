// Package config handles configuration for the vault application,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for SecureVault.
//
// Fields:
//   - DatabaseDriver: "sqlite" (embedded file) or "pgx" (PostgreSQL).
//   - DatabaseDSN: file path for sqlite, PostgreSQL DSN for pgx.
//   - SessionBackend: "memory" or "redis".
//   - SessionTTL: lifetime of an unlocked session.
//   - RedisAddr / RedisPassword / RedisDB: settings for the redis backend.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// LoadDefaults populates Config with local development defaults: an embedded
// sqlite database next to the binary and in-process sessions.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "securevault.db"
	c.SessionBackend = "memory"
	c.SessionTTL = 30 * time.Minute
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
