package device

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
)

// RedisStore reads the switch's Redis databases over a Redis connection,
// usually through SSHTunnel.Forward. One client is kept per DB index.
type RedisStore struct {
	addr string

	mu      sync.Mutex
	clients map[int]*redis.Client
}

// NewRedisStore creates a store for the Redis server at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		addr:    addr,
		clients: make(map[int]*redis.Client),
	}
}

func (s *RedisStore) client(db int) *redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[db]
	if !ok {
		c = redis.NewClient(&redis.Options{
			Addr: s.addr,
			DB:   db,
		})
		s.clients[db] = c
	}
	return c
}

// Ping tests the connection to db.
func (s *RedisStore) Ping(ctx context.Context, db int) error {
	return s.client(db).Ping(ctx).Err()
}

// ListKeys returns the keys in db matching pattern using cursor-based SCAN
// (non-blocking, unlike KEYS *).
func (s *RedisStore) ListKeys(ctx context.Context, db int, pattern string) ([]string, error) {
	return scanKeys(ctx, s.client(db), pattern, 100)
}

// ReadHash returns all fields of the hash at key. A key holding a non-hash
// value reads as an empty map, the same as a missing key.
func (s *RedisStore) ReadHash(ctx context.Context, db int, key string) (map[string]string, error) {
	vals, err := s.client(db).HGetAll(ctx, key).Result()
	if err != nil {
		if isWrongType(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return vals, nil
}

// Close closes every client.
func (s *RedisStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for db, c := range s.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.clients, db)
	}
	return firstErr
}

// scanKeys collects every key matching pattern with SCAN.
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func isWrongType(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(rerr.Error(), "WRONGTYPE")
}
