package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
	"github.com/dmitrymomot/catalogkit/pkg/storage"
)

const catalogV1 = `
catalogName: acme
effectiveDate: 2012-01-01T00:00:00Z
currencies: [USD]
products:
  - name: Shotgun
plans:
  - name: shotgun-monthly
    product: Shotgun
    finalPhase:
      recurring:
        billingPeriod: MONTHLY
        prices:
          - { currency: USD, amount: "250.00" }
priceLists:
  default: [shotgun-monthly]
`

const catalogV2 = `
catalogName: acme
effectiveDate: 2012-06-01T00:00:00Z
currencies: [USD]
products:
  - name: Shotgun
plans:
  - name: shotgun-monthly
    product: Shotgun
    effectiveDateForExistingSubscriptions: 2012-09-01T00:00:00Z
    finalPhase:
      recurring:
        billingPeriod: MONTHLY
        prices:
          - { currency: USD, amount: "300.00" }
priceLists:
  default: [shotgun-monthly]
`

func TestCatalogSource_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	saveDoc := func(t *testing.T, store storage.SnapshotStore, tenant uuid.UUID, effective time.Time, doc string) {
		t.Helper()
		require.NoError(t, store.SaveSnapshot(ctx, storage.SnapshotDocument{
			TenantID:      tenant,
			EffectiveDate: effective,
			Document:      []byte(doc),
		}))
	}

	t.Run("stored documents resolve with grandfathering intact", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		tenant := uuid.New()
		saveDoc(t, store, tenant, time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC), catalogV2)
		saveDoc(t, store, tenant, time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), catalogV1)

		vc, err := storage.NewCatalogSource(store).Load(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, vc.Versions(), 2)

		ref := catalog.PlanReference{PlanName: "shotgun-monthly"}
		subscribed := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)

		res, err := vc.Resolve(ref, time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), subscribed)
		require.NoError(t, err)
		price, err := res.Plan.FinalPhase.Recurring.Price.Value("USD")
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("250.00")),
			"existing subscription keeps the old price until the changeover date")

		res, err = vc.Resolve(ref, time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC), subscribed)
		require.NoError(t, err)
		price, err = res.Plan.FinalPhase.Recurring.Price.Value("USD")
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("300.00")))
	})

	t.Run("tenant without documents yields an empty catalog", func(t *testing.T) {
		t.Parallel()

		vc, err := storage.NewCatalogSource(storage.NewMemoryStore()).Load(ctx, uuid.New())
		require.NoError(t, err)

		_, err = vc.Resolve(catalog.PlanReference{PlanName: "shotgun-monthly"}, time.Now(), time.Now())
		assert.ErrorIs(t, err, catalog.ErrNoCatalogForDate)
	})

	t.Run("unparseable document fails with version context", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemoryStore()
		tenant := uuid.New()
		saveDoc(t, store, tenant, time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), "catalogName: [broken")

		_, err := storage.NewCatalogSource(store).Load(ctx, tenant)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrFailedToLoad)
		assert.Contains(t, err.Error(), "2012-01-01")
	})

	t.Run("invalid catalog edit fails the load", func(t *testing.T) {
		t.Parallel()

		// Same plan, different catalog name: the cross-version check rejects
		// the sequence.
		const renamed = `
catalogName: other
effectiveDate: 2012-06-01T00:00:00Z
currencies: [USD]
products:
  - name: Shotgun
plans:
  - name: shotgun-monthly
    product: Shotgun
    finalPhase:
      recurring:
        billingPeriod: MONTHLY
        prices:
          - { currency: USD, amount: "300.00" }
priceLists:
  default: [shotgun-monthly]
`
		store := storage.NewMemoryStore()
		tenant := uuid.New()
		saveDoc(t, store, tenant, time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), catalogV1)
		saveDoc(t, store, tenant, time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC), renamed)

		_, err := storage.NewCatalogSource(store).Load(ctx, tenant)
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrFailedToLoad)

		var verrs catalog.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}
