package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis read-through layer over another Store. Writes go to the
// backing store first; a cache failure never fails a call whose backing
// operation succeeded.
type Cache[T any] struct {
	backing Store[T]
	client  redis.Cmdable
	prefix  string
	ttl     time.Duration
	logger  *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption[T any] func(*Cache[T])

func WithCacheLogger[T any](logger *slog.Logger) CacheOption[T] {
	return func(c *Cache[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache wraps backing. Keys are prefix + id.
func NewCache[T any](backing Store[T], client redis.Cmdable, prefix string, ttl time.Duration, opts ...CacheOption[T]) (*Cache[T], error) {
	if backing == nil {
		return nil, fmt.Errorf("backing store is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	c := &Cache[T]{
		backing: backing,
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Cache[T]) key(id string) string { return c.prefix + id }

func (c *Cache[T]) Save(ctx context.Context, id string, doc T) error {
	if err := c.backing.Save(ctx, id, doc); err != nil {
		return err
	}
	c.put(ctx, id, doc)
	return nil
}

func (c *Cache[T]) Find(ctx context.Context, id string) (T, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		if doc, decErr := decode[T](raw); decErr == nil {
			return doc, nil
		}
		c.logger.WarnContext(ctx, "dropping undecodable cache entry", "id", id)
		c.client.Del(ctx, c.key(id))
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "cache read failed", "id", id, "error", err)
	}

	doc, err := c.backing.Find(ctx, id)
	if err != nil {
		return doc, err
	}
	c.put(ctx, id, doc)
	return doc, nil
}

func (c *Cache[T]) FindMany(ctx context.Context, ids []string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	var misses []string
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "cache batch read failed", "error", err)
		misses = ids
	} else {
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				misses = append(misses, ids[i])
				continue
			}
			doc, decErr := decode[T]([]byte(s))
			if decErr != nil {
				misses = append(misses, ids[i])
				continue
			}
			out[ids[i]] = doc
		}
	}

	if len(misses) == 0 {
		return out, nil
	}
	loaded, err := c.backing.FindMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, doc := range loaded {
		out[id] = doc
		c.put(ctx, id, doc)
	}
	return out, nil
}

// Invalidate drops id from the cache.
func (c *Cache[T]) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// put refreshes the entry for id. When the refresh fails the old entry is
// dropped so later reads fall through to the backing store.
func (c *Cache[T]) put(ctx context.Context, id string, doc T) {
	raw, err := encode(doc)
	if err == nil {
		err = c.client.Set(ctx, c.key(id), raw, c.ttl).Err()
	}
	if err == nil {
		return
	}
	c.logger.WarnContext(ctx, "cache write failed", "id", id, "error", err)
	if delErr := c.client.Del(ctx, c.key(id)).Err(); delErr != nil {
		c.logger.WarnContext(ctx, "stale cache entry not evicted", "id", id, "error", delErr)
	}
}
