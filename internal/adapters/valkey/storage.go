package valkey

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valkey-io/valkey-go"
)

const storageTimeout = 2 * time.Second

var _ fiber.Storage = (*Storage)(nil)

// Storage adapts the cache to fiber.Storage so rate-limit counters are shared
// between API replicas. Keys are namespaced with prefix.
type Storage struct {
	cache  *Cache
	prefix string
}

// NewStorage creates a fiber storage backed by c.
func NewStorage(c *Cache, prefix string) *Storage {
	return &Storage{cache: c, prefix: prefix}
}

// Get returns nil, nil for a missing key as fiber expects.
func (s *Storage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	b, err := s.cache.get(ctx, s.prefix+key)
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	return b, err
}

func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.cache.set(ctx, s.prefix+key, val, exp)
}

func (s *Storage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return s.cache.del(ctx, s.prefix+key)
}

// Reset deletes every key under the prefix.
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*storageTimeout)
	defer cancel()

	client := s.cache.client
	var cursor uint64
	for {
		entry, err := client.Do(ctx, client.B().Scan().Cursor(cursor).Match(s.prefix+"*").Count(100).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if len(entry.Elements) > 0 {
			if err := s.cache.del(ctx, entry.Elements...); err != nil {
				return err
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op; the underlying cache is closed by its owner.
func (s *Storage) Close() error {
	return nil
}
