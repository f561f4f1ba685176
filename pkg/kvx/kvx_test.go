package kvx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryBasics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), val)

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent key is fine.
	require.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAt(func() time.Time { return now })

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok, "entry should lapse exactly at its deadline")
}

func TestMemoryExpireAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAt(func() time.Time { return now })

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, m.ExpireAt(ctx, "k", now.Add(time.Second)))

	now = now.Add(2 * time.Second)
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// ExpireAt on a missing key is a no-op.
	require.NoError(t, m.ExpireAt(ctx, "missing", now))
}

func TestRedisDriver(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	r := NewRedis(client, "test")

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), val)

	// TTL lapses.
	srv.FastForward(time.Minute)
	_, ok, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// Delete.
	require.NoError(t, r.Set(ctx, "k2", []byte("v"), 0))
	require.NoError(t, r.Delete(ctx, "k2"))
	_, ok, err = r.Get(ctx, "k2")
	require.NoError(t, err)
	require.False(t, ok)
}
