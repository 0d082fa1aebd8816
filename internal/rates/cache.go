package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/hypotheek/pkg/constants"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/redis/go-redis/v9"
)

// Cache stores provider responses by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache keeps responses in process memory.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns an unexpired entry.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value until ttl has passed.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expires: m.now().Add(ttl)}
	return nil
}

// RedisCache keeps responses in redis with native expiry.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the redis server at addr.
func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Get returns the stored value, reporting false when the key is absent.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value with the given expiry.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the redis connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// SQLiteCache keeps responses in a sqlite file so they survive restarts.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

const createCacheTable = `CREATE TABLE IF NOT EXISTS responses (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	expires_at INTEGER NOT NULL
)`

// NewSQLiteCache opens (and if needed creates) the cache database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createCacheTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create rate cache table: %w", err)
	}
	return &SQLiteCache{db: db, now: time.Now}, nil
}

// Get returns an unexpired entry.
func (s *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM responses WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value until ttl has passed, replacing any previous entry.
func (s *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, s.now().Add(ttl).UnixNano(),
	)
	return err
}

// Close closes the database.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

// OpenCache returns the cache for a configured backend along with a
// function that releases it. Backend "none" returns a nil Cache.
func OpenCache(backend, redisAddress, sqlitePath string) (Cache, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case "", constants.CacheBackendMemory:
		return NewMemoryCache(), noop, nil
	case constants.CacheBackendNone:
		return nil, noop, nil
	case constants.CacheBackendRedis:
		if redisAddress == "" {
			return nil, noop, fmt.Errorf("redis cache backend requires an address")
		}
		c := NewRedisCache(redisAddress)
		return c, c.Close, nil
	case constants.CacheBackendSQLite:
		if sqlitePath == "" {
			return nil, noop, fmt.Errorf("sqlite cache backend requires a path")
		}
		c, err := NewSQLiteCache(sqlitePath)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown rate cache backend %q", backend)
}
