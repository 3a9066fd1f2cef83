// Package querycache is an optional read-through cache for search results:
// gocache over redis, keyed by a hash of the request, so a repeated query
// against an unmodified graph is served without re-running the search.
package querycache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"

	"github.com/tempuscore/tempuscore/pkg/redis_client"
	"github.com/tempuscore/tempuscore/pkg/search"
)

// Cache is a read-through cache keyed on a hash of the search request.
type Cache struct {
	cache *cache.Cache[string]
}

// New builds a Cache over the already-connected redis_client.Client,
// expiring entries after ttl.
func New(ttl time.Duration) *Cache {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(ttl))
	return &Cache{cache: cache.New[string](redisStore)}
}

// Key hashes the parts of a search.Request that determine its result: a
// cache hit requires an exact match on origin, destination, direction,
// optimisation criterion, time, service date, initial mode and allowed mode
// set.
func Key(req search.Request) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%v|%d|%.3f|%s|%d|%v",
		req.Origin.String(), req.Destination.String(), req.ArriveBy, req.Criterion, req.Time,
		req.Date.Format("2006-01-02"), req.InitialMode, req.AllowedModes)
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a previously cached result.
func (c *Cache) Get(ctx context.Context, key string) (search.Result, bool) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return search.Result{}, false
	}
	var result search.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return search.Result{}, false
	}
	return result, true
}

// Set stores result under key.
func (c *Cache) Set(ctx context.Context, key string, result search.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, string(raw))
}
