package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipes_cache_hits_total",
			Help: "Total number of recipe cache hits",
		},
	)
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipes_cache_misses_total",
			Help: "Total number of recipe cache misses",
		},
	)
)

// storeIfCurrent sets KEYS[1] only while the generation in KEYS[2] still
// equals ARGV[2]. ARGV[3] is the TTL in milliseconds.
var storeIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

func generationKey(key string) string {
	return key + ":gen"
}

// Cache is a read-through JSON cache in Redis.
// A Cache without a client still deduplicates concurrent loads but stores nothing.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group
}

// New creates a cache from configuration. When caching is disabled the
// returned cache only collapses concurrent loads.
func New(cfg Config, logger *zap.Logger) *Cache {
	if !cfg.Enabled() {
		return NewWithClient(nil, cfg.TTL(), logger)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.TTL(), logger)
}

// NewWithClient creates a cache over an existing Redis client.
func NewWithClient(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Ping verifies the Redis connection. A disabled cache always succeeds.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Invalidate deletes the given keys and bumps their generation, so a load
// that started earlier cannot store its result afterwards. Failures are
// logged, not returned: a stale entry expires with its TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.sf.Forget(key)
	}
	if c.client == nil || len(keys) == 0 {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// GetOrLoad returns the cached value for key, or calls load, stores the result
// and returns it. Concurrent misses for one key share a single load.
// Redis failures degrade to calling load directly.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if value, ok := lookup[T](ctx, c, key); ok {
		cacheHits.Inc()
		return value, nil
	}
	cacheMisses.Inc()

	result, err, _ := c.sf.Do(key, func() (any, error) {
		gen, ok := c.generation(ctx, key)
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			c.store(ctx, key, gen, value)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func lookup[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var value T
	if c.client == nil {
		return value, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false
	}
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("Cache entry corrupt", zap.String("key", key), zap.Error(err))
		return value, false
	}
	return value, true
}

// generation returns the current generation of key. It reports false when
// Redis is unavailable, in which case the loaded value is not stored.
func (c *Cache) generation(ctx context.Context, key string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	gen, err := c.client.Get(ctx, generationKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", true
	}
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", generationKey(key)), zap.Error(err))
		return "", false
	}
	return gen, true
}

// store writes value under key unless key was invalidated after gen was read.
func (c *Cache) store(ctx context.Context, key, gen string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	stored, err := storeIfCurrent.Run(ctx, c.client, []string{key, generationKey(key)}, raw, gen, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if stored == 0 {
		c.logger.Debug("Cache fill dropped, key invalidated during load", zap.String("key", key))
	}
}
