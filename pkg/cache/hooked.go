package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/orgchart/pkg/observability"
)

// hooked reports hits, misses and writes to the registered
// [observability.CacheHooks].
type hooked struct {
	Cache
}

// WithHooks wraps c so every Get and Set is reported to the global cache
// hooks. The key type passed to hooks is the key's leading segment
// ("frame", "artifact", "http").
func WithHooks(c Cache) Cache {
	if c == nil {
		return nil
	}
	if _, ok := c.(*hooked); ok {
		return c
	}
	return &hooked{Cache: c}
}

func (h *hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := h.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (h *hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := h.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// KeyType returns the kind segment of a key built by [DefaultKeyer],
// skipping any scope prefix.
func KeyType(key string) string {
	for _, kind := range []string{"artifact:", "frame:", "http:"} {
		if strings.HasPrefix(key, kind) || strings.Contains(key, ":"+kind) {
			return strings.TrimSuffix(kind, ":")
		}
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
