// Package cache provides the two-tier result cache: a Redis primary with a
// process-local in-memory fallback.
//
// The cache starts on the primary when the construction probe succeeds and
// moves to the fallback permanently on the first primary failure. There is
// no reconnect; a flapping primary would otherwise split cached state
// between tiers.
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bioatlas/genesummary/internal/app/metrics"
	"github.com/bioatlas/genesummary/pkg/logger"
)

// State reports which tier the cache serves from.
type State int32

const (
	// Connected means the Redis primary is in use.
	Connected State = iota
	// Degraded means the in-memory fallback is in use.
	Degraded
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "degraded"
}

const defaultConnectTimeout = 2 * time.Second

// entry is one fallback-tier value with its expiry.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is the two-tier result cache. Construct with New; methods are safe
// for concurrent use. Cache failures are absorbed, never surfaced: callers
// observe only presence or absence of a value.
type Cache struct {
	primary *redis.Client
	state   int32

	mu       sync.Mutex
	fallback map[string]entry

	log *logger.Logger
	now func() time.Time
}

// New builds a cache backed by the Redis instance at redisURL. The primary
// is probed once with a short timeout; an unreachable primary is logged and
// the cache starts degraded instead of failing construction.
func New(redisURL string, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.NewDefault("cache")
	}
	c := &Cache{
		state:    int32(Degraded),
		fallback: make(map[string]entry),
		log:      log,
		now:      time.Now,
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.WithError(err).Warn("invalid redis url, cache starting degraded")
		metrics.SetCacheDegraded(true)
		return c
	}
	opts.DialTimeout = defaultConnectTimeout

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, cache starting degraded")
		client.Close()
		metrics.SetCacheDegraded(true)
		return c
	}

	c.primary = client
	atomic.StoreInt32(&c.state, int32(Connected))
	metrics.SetCacheDegraded(false)
	log.WithField("redis_url", redactedURL(opts)).Info("cache connected to redis primary")
	return c
}

// State reports the current tier.
func (c *Cache) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// Get returns the cached value for key. A miss, an expired entry and a
// failed primary all report absence.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.State() == Connected {
		val, err := c.primary.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			metrics.RecordCacheOperation("redis", "get", "hit")
			return val, true
		case errors.Is(err, redis.Nil):
			metrics.RecordCacheOperation("redis", "get", "miss")
			return nil, false
		case errors.Is(err, context.Canceled):
			return nil, false
		default:
			metrics.RecordCacheOperation("redis", "get", "error")
			c.degrade(err)
		}
	}
	return c.memGet(key)
}

// Set stores value under key for ttl. On the primary tier a successful write
// ends the operation; a failed one degrades the cache and the value lands in
// the fallback instead.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.State() == Connected {
		err := c.primary.Set(ctx, key, value, ttl).Err()
		if err == nil {
			metrics.RecordCacheOperation("redis", "set", "ok")
			return
		}
		if !errors.Is(err, context.Canceled) {
			metrics.RecordCacheOperation("redis", "set", "error")
			c.degrade(err)
		}
	}
	c.memSet(key, value, ttl)
}

// Delete removes key from both tiers.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c.State() == Connected {
		err := c.primary.Del(ctx, key).Err()
		switch {
		case err == nil:
			metrics.RecordCacheOperation("redis", "delete", "ok")
		case errors.Is(err, context.Canceled):
		default:
			metrics.RecordCacheOperation("redis", "delete", "error")
			c.degrade(err)
		}
	}
	c.mu.Lock()
	delete(c.fallback, key)
	c.mu.Unlock()
}

// Close releases the primary connection if one is held.
func (c *Cache) Close() error {
	if c.primary == nil {
		return nil
	}
	return c.primary.Close()
}

// degrade performs the one-way transition to the fallback tier. Only the
// first caller logs; later failures from in-flight operations are no-ops.
func (c *Cache) degrade(err error) {
	if atomic.CompareAndSwapInt32(&c.state, int32(Connected), int32(Degraded)) {
		c.log.WithError(err).Warn("redis primary failed, falling back to in-memory cache")
		metrics.SetCacheDegraded(true)
		if c.primary != nil {
			c.primary.Close()
		}
	}
}

func (c *Cache) memGet(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.fallback[key]
	if !ok {
		metrics.RecordCacheOperation("memory", "get", "miss")
		return nil, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.fallback, key)
		metrics.RecordCacheOperation("memory", "get", "miss")
		return nil, false
	}
	metrics.RecordCacheOperation("memory", "get", "hit")
	return e.value, true
}

func (c *Cache) memSet(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.fallback[key] = e
	metrics.RecordCacheOperation("memory", "set", "ok")
}

func redactedURL(opts *redis.Options) string {
	if opts.Password == "" {
		return opts.Addr
	}
	return opts.Addr + " (authenticated)"
}
