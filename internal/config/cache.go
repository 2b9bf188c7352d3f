package config

import "time"

// CacheConfig tunes the Redis read-response cache applied to the
// animal and activity list endpoints. With caching disabled or Redis
// unreachable the middleware is a pass-through.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment. The short
// default TTL keeps list responses fresh without hammering SQLite on
// dashboard polling.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
