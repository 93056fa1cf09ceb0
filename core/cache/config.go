package cache

import "time"

// Config holds configuration for the Redis-backed cache.
type Config struct {
	// Address is the Redis host:port. Empty disables caching.
	Address string `mapstructure:"address" default:""`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis logical database.
	DB int `mapstructure:"db" default:"0"`
	// TTLSeconds is how long cached entries live.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"300"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.Address != ""
}

// TTL returns the entry lifetime, defaulting to five minutes.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
