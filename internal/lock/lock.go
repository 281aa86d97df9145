// Package lock guards operations that must not overlap, such as a bulk import.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by TryLock when another holder owns the lock.
var ErrHeld = errors.New("lock: already held")

// Locker hands out a non-blocking exclusive lock.
type Locker interface {
	// TryLock acquires the lock or returns ErrHeld. The returned func releases it.
	TryLock(ctx context.Context) (release func(), err error)
}

// MemoryLocker is a Locker scoped to the current process.
type MemoryLocker struct {
	mu sync.Mutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

func (l *MemoryLocker) TryLock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.mu.TryLock() {
		return nil, ErrHeld
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every process pointed at the same Redis.
// The TTL bounds how long a crashed holder can keep others out.
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, key string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock: acquiring %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// Release must run even if the caller's context is already done.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
		})
	}
	return release, nil
}

// ImportKey is the Redis key guarding bulk imports.
const ImportKey = "customers-map:import"

// RedisOptions configures Open. An empty Addr selects the in-process locker.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Open returns the import locker for opts and a func that releases its resources.
func Open(ctx context.Context, opts RedisOptions) (Locker, func() error, error) {
	if opts.Addr == "" {
		return NewMemoryLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("lock: failed to ping redis at %s: %w", opts.Addr, err)
	}
	return NewRedisLocker(client, ImportKey, opts.TTL), client.Close, nil
}
