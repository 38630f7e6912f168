package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

const precioCacheTTL = 4 * time.Hour

// PrecioCache is a best-effort read-through cache for system-price
// lookups. Every write path that touches precios_sistema must call
// Invalidar so stale prices never outlive a reconciliation decision.
type PrecioCache struct {
	rdb *redis.Client
}

func NewPrecioCache(rdb *redis.Client) *PrecioCache { return &PrecioCache{rdb: rdb} }

func (c *PrecioCache) clave(codigo string) string { return "precio_sistema:" + codigo }

// Get unmarshals a cached response into dest. Returns false on miss or
// any cache error — callers fall through to the database.
func (c *PrecioCache) Get(ctx context.Context, codigo string, dest any) bool {
	b, err := c.rdb.Get(ctx, c.clave(codigo)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

// Set stores a response; errors are ignored (cache is best effort).
func (c *PrecioCache) Set(ctx context.Context, codigo string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, c.clave(codigo), b, precioCacheTTL).Err()
	}
}

// Invalidar drops the cached entries for a product's codes.
func (c *PrecioCache) Invalidar(ctx context.Context, codigos ...string) {
	for _, codigo := range codigos {
		if codigo != "" {
			_ = c.rdb.Del(ctx, c.clave(codigo)).Err()
		}
	}
}
