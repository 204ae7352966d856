// Package redis stores each collection as a single Redis string value.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces collection keys inside a shared Redis database.
const DefaultPrefix = "cuaderno:"

// Store is a go-redis backed KV.
type Store struct {
	rdb    *goredis.Client
	prefix string
}

// Open parses a redis:// URL and validates connectivity at startup.
func Open(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &Store{rdb: rdb, prefix: DefaultPrefix}, nil
}

// NewWithClient wraps an existing client; prefix may be empty.
func NewWithClient(rdb *goredis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Get returns the stored document, or nil when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set overwrites the document with no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Store) Ready(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *Store) Close() error { return s.rdb.Close() }
