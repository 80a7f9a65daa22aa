package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps Redis transport failures on cache maintenance
// paths that cannot degrade silently (Invalidate).
var ErrRedisUnavailable = errors.New("redis unavailable")

// Cache wraps a Provider with a Redis TTL cache. Reads prefer the cache and
// fall through to the source on miss, corruption, or Redis unavailability;
// the cache being down never makes profiles unavailable, only slower.
// Invalidate drops the cached copy after a profile edit so the next
// navigation re-reads fresh role and status.
type Cache struct {
	redis  redis.UniversalClient
	source Provider
	prefix string
	ttl    time.Duration
}

// NewCache creates a profile Cache in front of source.
func NewCache(client redis.UniversalClient, source Provider, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		redis:  client,
		source: source,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *Cache) key(subjectID string) string {
	return c.prefix + ":p:" + subjectID
}

// FetchProfile returns the subject's profile, consulting the cache first.
// Cache maintenance failures are logged and swallowed; the source result
// still reaches the caller.
func (c *Cache) FetchProfile(ctx context.Context, subjectID string) (Profile, error) {
	if subjectID == "" {
		return Profile{}, ErrNotFound
	}

	key := c.key(subjectID)

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var p Profile
		if jsonErr := json.Unmarshal(data, &p); jsonErr == nil {
			return p, nil
		}
		// Corrupt entry: drop it and refetch.
		if delErr := c.redis.Del(ctx, key).Err(); delErr != nil {
			log.Print("navguard: failed to drop corrupt profile cache entry: ", delErr)
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Print("navguard: profile cache read degraded to source: ", err)
	}

	p, err := c.source.FetchProfile(ctx, subjectID)
	if err != nil {
		return Profile{}, err
	}

	encoded, err := json.Marshal(p)
	if err != nil {
		return p, nil
	}
	if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		log.Print("navguard: profile cache write failed: ", err)
	}

	return p, nil
}

// Invalidate removes the cached profile for a subject. Invalidating an
// uncached subject is not an error.
func (c *Cache) Invalidate(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil
	}
	if err := c.redis.Del(ctx, c.key(subjectID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
