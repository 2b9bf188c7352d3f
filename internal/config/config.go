// Package config loads application configuration from environment
// variables. Every field has a development-friendly default so the
// server starts with nothing but a writable data directory.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration. Types reflect how values are
// used: strings for identifiers and paths, durations for timeouts, ints
// for costs.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBPath         string        // SQLite database file path
	BcryptCost     int           // bcrypt cost for password hashing
	SessionTimeout time.Duration // idle timeout for sessions (also the sweep period)
}

// Load reads configuration from the environment, falling back to
// defaults for anything unset.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		DBPath:         envStr("DB_PATH", "data/rescue.db"),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		SessionTimeout: envDur("SESSION_TIMEOUT", 30*time.Minute),
	}
}

// Shared env helpers, reused by the rate-limit and cache loaders.

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
