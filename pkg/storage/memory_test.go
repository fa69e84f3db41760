package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/override"
	"github.com/dmitrymomot/catalogkit/pkg/storage"
)

func TestMemoryStore_Snapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tenant := uuid.New()

	t.Run("lists ascending by effective date", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		newer := time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC)
		older := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, store.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID: tenant, EffectiveDate: newer, Document: []byte("b"),
		}))
		require.NoError(t, store.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID: tenant, EffectiveDate: older, Document: []byte("a"),
		}))

		docs, err := store.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, older, docs[0].EffectiveDate)
		assert.Equal(t, newer, docs[1].EffectiveDate)
		assert.False(t, docs[0].CreatedAt.IsZero())
	})

	t.Run("rejects a duplicate effective date", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		date := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		doc := storage.SnapshotDocument{TenantID: tenant, EffectiveDate: date, Document: []byte("a")}

		require.NoError(t, store.SaveSnapshot(ctx, doc))
		assert.ErrorIs(t, store.SaveSnapshot(ctx, doc), storage.ErrSnapshotExists)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		date := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID: tenant, EffectiveDate: date, Document: []byte("a"),
		}))

		docs, err := store.ListSnapshots(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("callers cannot alias stored documents", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		date := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		payload := []byte("original")
		require.NoError(t, store.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID: tenant, EffectiveDate: date, Document: payload,
		}))
		payload[0] = 'X'

		docs, err := store.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, []byte("original"), docs[0].Document)

		docs[0].Document[0] = 'Y'
		again, err := store.ListSnapshots(ctx, tenant)
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), again[0].Document)
	})
}

func TestMemoryStore_Overrides(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lists a subscription's records for the owning tenant only", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		tenant := uuid.New()
		subscription := uuid.New()
		price := decimal.RequireFromString("200.00")

		require.NoError(t, store.SaveOverrides(ctx, storage.OverrideRecord{
			TenantID:       tenant,
			SubscriptionID: subscription,
			PlanName:       "shotgun-monthly",
			Overrides: []override.PhaseOverride{{
				PhaseName:      "shotgun-monthly-evergreen",
				Currency:       "USD",
				RecurringPrice: &price,
			}},
		}))

		records, err := store.ListOverrides(ctx, tenant, subscription)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "shotgun-monthly", records[0].PlanName)
		assert.False(t, records[0].CreatedAt.IsZero())

		other, err := store.ListOverrides(ctx, uuid.New(), subscription)
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}
