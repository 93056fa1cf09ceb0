package logger

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}

// redactedKeys name JSON fields whose values are replaced by their length.
var redactedKeys = map[string]struct{}{"content": {}}

// Entity returns a field holding the JSON form of v, used when logging a
// failing entity. Inline media payloads are replaced by their size.
// Values that cannot be marshalled fall back to zap.Any.
func Entity(key string, v any) zap.Field {
	b, err := json.Marshal(v)
	if err != nil {
		return zap.Any(key, v)
	}

	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return zap.ByteString(key, b)
	}
	if !redact(tree) {
		return zap.ByteString(key, b)
	}
	if b, err = json.Marshal(tree); err != nil {
		return zap.Any(key, v)
	}
	return zap.ByteString(key, b)
}

// redact rewrites redacted keys in place and reports whether it changed anything.
func redact(node any) bool {
	changed := false
	switch n := node.(type) {
	case map[string]any:
		for k, val := range n {
			if s, ok := val.(string); ok {
				if _, hit := redactedKeys[k]; hit && s != "" {
					n[k] = fmt.Sprintf("<%d bytes>", len(s))
					changed = true
				}
				continue
			}
			if redact(val) {
				changed = true
			}
		}
	case []any:
		for _, val := range n {
			if redact(val) {
				changed = true
			}
		}
	}
	return changed
}
