package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, err := l.TryLock(ctx)
	require.NoError(t, err)

	_, err = l.TryLock(ctx)
	assert.ErrorIs(t, err, ErrHeld)

	release()
	release() // second call is a no-op

	again, err := l.TryLock(ctx)
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryLocker().TryLock(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_WithoutRedis(t *testing.T) {
	l, closeFn, err := Open(context.Background(), RedisOptions{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, l)
	assert.NoError(t, closeFn())
}

func TestOpen_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, _, err := Open(ctx, RedisOptions{Addr: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
}
