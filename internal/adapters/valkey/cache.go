package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/mygeo/internal/core/ports"
)

// keyPrefix namespaces cache entries so the server can be shared.
const keyPrefix = "mygeo:cache:"

var _ ports.CacheService = (*Cache)(nil)

// Cache implements ports.CacheService using Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
}

// New creates a new Valkey cache client.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true, // no client-side caching; every read goes through Do
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

// Get retrieves a value by key. A missing key is reported as a valkey nil error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.get(ctx, keyPrefix+key)
}

// Set stores a value with a TTL in seconds; zero means no expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return c.set(ctx, keyPrefix+key, value, time.Duration(ttlSeconds)*time.Second)
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.del(ctx, keyPrefix+key)
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
}

func (c *Cache) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b := c.client.B().Set().Key(key).Value(valkey.BinaryString(value))
	if ttl > 0 {
		return c.client.Do(ctx, b.Px(ttl).Build()).Error()
	}
	return c.client.Do(ctx, b.Build()).Error()
}

func (c *Cache) del(ctx context.Context, keys ...string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(keys...).Build()).Error()
}
