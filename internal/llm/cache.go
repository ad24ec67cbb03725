package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"tennis-booking/internal/common/cache"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/common/metrics"
)

// Store is the subset of cache.RedisClient used for completions.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachingCompleter memoizes raw completion text. Redis failures are logged
// and the call falls through to the wrapped completer.
type CachingCompleter struct {
	next   Completer
	store  Store
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachingCompleter(next Completer, store Store, ttl time.Duration, prefix string, log logger.Logger) *CachingCompleter {
	return &CachingCompleter{
		next:   next,
		store:  store,
		ttl:    ttl,
		prefix: prefix,
		logger: log.With(map[string]interface{}{"component": "completion-cache"}),
	}
}

func (c *CachingCompleter) Provider() string { return c.next.Provider() }

func (c *CachingCompleter) Complete(ctx context.Context, req Request) (string, error) {
	key := CacheKey(c.prefix, c.next.Provider(), req)

	cached, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CompletionCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.CompletionCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CompletionCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("completion cache read failed", map[string]interface{}{"error": err.Error()})
	}

	text, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.Warn("completion cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return text, nil
}

// Invalidate drops the stored completion for req.
func (c *CachingCompleter) Invalidate(ctx context.Context, req Request) error {
	return c.store.Del(ctx, CacheKey(c.prefix, c.next.Provider(), req))
}

// CacheKey derives the Redis key for a request on a given provider.
func CacheKey(prefix, provider string, req Request) string {
	payload, _ := json.Marshal(struct {
		Provider string  `json:"provider"`
		Request  Request `json:"request"`
	}{provider, req})
	sum := sha256.Sum256(payload)
	return prefix + hex.EncodeToString(sum[:])
}
