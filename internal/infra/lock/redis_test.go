package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedis(rdb, 30*time.Second, 120*time.Millisecond, nil), mr
}

func TestRedis_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedis(t)

	release, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisKeyPrefix+"p1"))
	assert.Equal(t, 30*time.Second, mr.TTL(redisKeyPrefix+"p1"))

	_, err = l.Acquire(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotAcquired)

	release()
	assert.False(t, mr.Exists(redisKeyPrefix+"p1"))

	again, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)
	again()
}

func TestRedis_ReleaseKeepsForeignToken(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedis(t)

	release, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)

	// TTL expired and another holder took over.
	require.NoError(t, mr.Set(redisKeyPrefix+"p1", "someone-else"))
	release()

	got, err := mr.Get(redisKeyPrefix + "p1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedis_WaitsForRelease(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestRedis(t)

	release, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)
	time.AfterFunc(30*time.Millisecond, release)

	second, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)
	second()
}

func TestRedis_ServerDown(t *testing.T) {
	l, mr := newTestRedis(t)
	mr.Close()

	_, err := l.Acquire(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAcquired)
}
