package cache

import (
	"context"
	"time"
)

// Cache is a read-through JSON cache. Get reports whether the key was
// present; a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func Key(prefix, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix    = "product"
	ProductListCacheKey = "products:all"
)
