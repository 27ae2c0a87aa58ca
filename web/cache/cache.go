package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akraev/simple-api/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("cache: key not found")

// Read-side hit/miss counters. Exposed through Stats for the stats job and
// for tests asserting that a repeated read was served from cache.
var (
	hits   atomic.Int64
	misses atomic.Int64
)

// Stats returns the cumulative read hit/miss counters.
func Stats() (hit, miss int64) {
	return hits.Load(), misses.Load()
}

// ResetStats zeroes the hit/miss counters.
func ResetStats() {
	hits.Store(0)
	misses.Store(0)
}

// MakeKey derives a deterministic cache key from an operation name and its
// significant arguments: "op_k1_v1_k2_v2..." with keys applied in sorted
// order, so call sites cannot diverge on argument ordering.
func MakeKey(op string, args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(op)
	for _, k := range keys {
		fmt.Fprintf(&b, "_%s_%v", k, args[k])
	}
	return b.String()
}

// Get retrieves a raw string value. Absent keys return ErrMiss.
func Get(ctx context.Context, key string) (string, error) {
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	return val, err
}

// Set stores a raw string value with an expiration. Zero expiration means
// the key never expires.
func Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key. Deleting an absent key is not an error.
func Delete(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// GetJSON retrieves a value and unmarshals it into dest, counting the lookup
// as a hit or miss.
func GetJSON(ctx context.Context, key string, dest any) error {
	val, err := Get(ctx, key)
	if err != nil {
		if err == ErrMiss {
			misses.Inc()
		}
		return err
	}
	hits.Inc()
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON marshals a value as JSON and stores it.
func SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return Set(ctx, key, string(data), expiration)
}

// GetOrSet retrieves a cached value into dest, or computes it with fn on a
// miss and caches the result. Cache write failures are logged, not returned:
// a broken cache must not fail the read itself.
//
// Known limitation: the database commit and the corresponding cache delete
// performed by writers are not atomic. A crash between the two leaves a stale
// entry behind until the next write for the same key.
func GetOrSet(ctx context.Context, key string, dest any, expiration time.Duration, fn func() (any, error)) error {
	err := GetJSON(ctx, key, dest)
	if err == nil {
		logger.Debugf("Cache hit for key: %s", key)
		return nil
	}

	logger.Debugf("Cache miss for key: %s", key)
	value, err := fn()
	if err != nil {
		return err
	}

	if err := SetJSON(ctx, key, value, expiration); err != nil {
		logger.Warningf("Failed to set cache for key %s: %v", key, err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
