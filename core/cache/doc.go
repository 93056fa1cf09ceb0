// Package cache provides a Redis-backed read-through cache.
//
// GetOrLoad serves JSON-encoded values from Redis and falls back to a loader
// on a miss. Concurrent misses for the same key are collapsed with
// singleflight so a cold cache does not stampede the database. Writers call
// Invalidate after committing.
//
// Redis is optional: with an empty address the cache stores nothing and
// every call goes to the loader.
//
// # Usage
//
//	c := cache.New(cfg.Cache, logger)
//	list, err := cache.GetOrLoad(ctx, c, "recipes:summaries", loadSummaries)
package cache
