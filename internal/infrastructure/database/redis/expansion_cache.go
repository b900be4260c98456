package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const expansionKeyspace = "expansion:"

// CachedExpansion is the value stored for one template expansion.
type CachedExpansion struct {
	Pattern     string   `json:"pattern"`
	Derivatives []string `json:"derivatives"`
}

// ExpansionCache memoises template expansions per substituent table.  Keys
// embed the table digest, so a reloaded table never serves stale results.
type ExpansionCache struct {
	cache Cache
	ttl   time.Duration
}

// NewExpansionCache returns an ExpansionCache storing entries for ttl.
func NewExpansionCache(cache Cache, ttl time.Duration) *ExpansionCache {
	return &ExpansionCache{cache: cache, ttl: ttl}
}

// ExpansionKey returns the cache key for template expanded with placeholder
// against the table identified by digest.
func ExpansionKey(digest, placeholder, template string) string {
	h := sha256.New()
	h.Write([]byte(placeholder))
	h.Write([]byte{0})
	h.Write([]byte(template))
	return expansionKeyspace + digest + ":" + hex.EncodeToString(h.Sum(nil))
}

// GetOrExpand returns the cached expansion, or computes it with expand and
// stores it.
func (c *ExpansionCache) GetOrExpand(ctx context.Context, digest, placeholder, template string,
	expand func(ctx context.Context) (CachedExpansion, error)) (CachedExpansion, error) {
	var out CachedExpansion
	err := c.cache.GetOrSet(ctx, ExpansionKey(digest, placeholder, template), &out, c.ttl,
		func(ctx context.Context) (interface{}, error) { return expand(ctx) })
	return out, err
}

// Lookup returns the cached expansion and whether it was present.
func (c *ExpansionCache) Lookup(ctx context.Context, digest, placeholder, template string) (CachedExpansion, bool, error) {
	var out CachedExpansion
	err := c.cache.Get(ctx, ExpansionKey(digest, placeholder, template), &out)
	switch {
	case err == nil:
		return out, true, nil
	case err == ErrCacheMiss:
		return CachedExpansion{}, false, nil
	default:
		return CachedExpansion{}, false, err
	}
}

// Store caches an expansion.
func (c *ExpansionCache) Store(ctx context.Context, digest, placeholder, template string, exp CachedExpansion) error {
	return c.cache.Set(ctx, ExpansionKey(digest, placeholder, template), exp, c.ttl)
}

// InvalidateTable drops every expansion computed against digest.
func (c *ExpansionCache) InvalidateTable(ctx context.Context, digest string) (int64, error) {
	return c.cache.DeleteByPrefix(ctx, expansionKeyspace+digest+":")
}

//Personal.AI order the ending
