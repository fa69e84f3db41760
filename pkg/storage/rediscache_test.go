package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/storage"
)

func cachedStore(t *testing.T, ttl time.Duration) (*storage.CachedSnapshotStore, *storage.MemoryStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := storage.NewMemoryStore()
	cached := storage.NewCachedSnapshotStore(inner, client, storage.CacheConfig{TTL: ttl})
	return cached, inner, mr
}

func TestCachedSnapshotStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("reads through the cache", func(t *testing.T) {
		t.Parallel()

		cached, inner, _ := cachedStore(t, time.Minute)
		tenant := uuid.New()
		first := storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v1"),
		}
		require.NoError(t, inner.SaveSnapshot(ctx, first))

		docs, err := cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, docs, 1)

		// A write that bypasses the cache stays invisible until the entry
		// expires or is invalidated.
		require.NoError(t, inner.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v2"),
		}))
		docs, err = cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, docs, 1, "second read must be served from the cache")
	})

	t.Run("save invalidates the tenant entry", func(t *testing.T) {
		t.Parallel()

		cached, _, _ := cachedStore(t, time.Minute)
		tenant := uuid.New()

		require.NoError(t, cached.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v1"),
		}))
		docs, err := cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, docs, 1)

		require.NoError(t, cached.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v2"),
		}))
		docs, err = cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, docs, 2, "save must drop the stale cache entry")
	})

	t.Run("expired entry is re-read from the store", func(t *testing.T) {
		t.Parallel()

		cached, inner, mr := cachedStore(t, time.Second)
		tenant := uuid.New()

		require.NoError(t, inner.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v1"),
		}))
		_, err := cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)

		require.NoError(t, inner.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v2"),
		}))
		mr.FastForward(2 * time.Second)

		docs, err := cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("corrupt cache entry falls back to the store", func(t *testing.T) {
		t.Parallel()

		cached, inner, mr := cachedStore(t, time.Minute)
		tenant := uuid.New()

		require.NoError(t, inner.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			Document:      []byte("v1"),
		}))
		require.NoError(t, mr.Set("catalogkit:snapshots:"+tenant.String(), "not json"))

		docs, err := cached.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, []byte("v1"), docs[0].Document)
	})
}
