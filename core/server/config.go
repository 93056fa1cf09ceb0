package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// RateLimit is the sustained requests per second allowed per client IP. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" default:"0"`
	// RateBurst is the burst size allowed per client IP.
	RateBurst int `mapstructure:"rate_burst" default:"20"`
	// BodyLimitBytes caps request bodies; media payloads travel inline as base64.
	BodyLimitBytes int `mapstructure:"body_limit_bytes" default:"33554432"`
}

// RateLimitEnabled reports whether per-client rate limiting is configured.
func (c Config) RateLimitEnabled() bool {
	return c.RateLimit > 0
}

// EffectiveBurst returns the configured burst, falling back to one request.
func (c Config) EffectiveBurst() int {
	if c.RateBurst <= 0 {
		return 1
	}
	return c.RateBurst
}
