package cache

import (
	"context"
	"time"
)

// BytesCache is the minimal cache surface shared by the session store and
// the traffic-estimate cache. Implementations are best effort.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
