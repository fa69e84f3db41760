package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

func TestSnapshot_Find(t *testing.T) {
	t.Parallel()

	effective := mustTime(t, "2012-01-01T00:00:00Z")
	snapshot := testSnapshot(t, "acme", effective,
		monthlyPlan(t, "shotgun-monthly", "Shotgun", "250.00"),
	)

	t.Run("find plan", func(t *testing.T) {
		t.Parallel()

		plan, err := snapshot.FindPlan("shotgun-monthly")
		require.NoError(t, err)
		assert.Equal(t, "shotgun-monthly", plan.Name)

		_, err = snapshot.FindPlan("pistol-monthly")
		assert.ErrorIs(t, err, catalog.ErrNoSuchPlan)
	})

	t.Run("find product", func(t *testing.T) {
		t.Parallel()

		product, err := snapshot.FindProduct("Shotgun")
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductBase, product.Category)

		_, err = snapshot.FindProduct("Pistol")
		assert.ErrorIs(t, err, catalog.ErrNoSuchProduct)
	})

	t.Run("find phase by qualified name", func(t *testing.T) {
		t.Parallel()

		phase, err := snapshot.FindPhase("shotgun-monthly-trial")
		require.NoError(t, err)
		assert.Equal(t, catalog.PhaseTrial, phase.Type)

		phase, err = snapshot.FindPhase("shotgun-monthly-evergreen")
		require.NoError(t, err)
		assert.Equal(t, catalog.PhaseEvergreen, phase.Type)
	})

	t.Run("phase name without known suffix", func(t *testing.T) {
		t.Parallel()

		_, err := snapshot.FindPhase("shotgun-monthly")
		assert.ErrorIs(t, err, catalog.ErrNoSuchPhase)
	})

	t.Run("phase of unknown plan", func(t *testing.T) {
		t.Parallel()

		_, err := snapshot.FindPhase("pistol-annual-trial")
		assert.ErrorIs(t, err, catalog.ErrNoSuchPlan)
	})

	t.Run("plan lacks requested phase type", func(t *testing.T) {
		t.Parallel()

		_, err := snapshot.FindPhase("shotgun-monthly-discount")
		assert.ErrorIs(t, err, catalog.ErrNoSuchPhase)
	})
}

func TestSnapshot_ResolvePriceListPlan(t *testing.T) {
	t.Parallel()

	effective := mustTime(t, "2012-01-01T00:00:00Z")

	newSnapshot := func(t *testing.T) *catalog.Snapshot {
		snapshot := testSnapshot(t, "acme", effective,
			monthlyPlan(t, "shotgun-monthly", "Shotgun", "250.00"),
			monthlyPlan(t, "rifle-monthly", "Rifle", "400.00"),
		)
		// A child list exposing only the rifle plan.
		snapshot.PriceLists.Children = append(snapshot.PriceLists.Children, &catalog.PriceList{
			Name:  "rescue",
			Plans: []string{"rifle-monthly"},
		})
		return snapshot
	}

	t.Run("match in named list", func(t *testing.T) {
		t.Parallel()

		plan, err := newSnapshot(t).ResolvePriceListPlan("Rifle", catalog.BillingMonthly, "rescue")
		require.NoError(t, err)
		assert.Equal(t, "rifle-monthly", plan.Name)
	})

	t.Run("fallback to default list", func(t *testing.T) {
		t.Parallel()

		plan, err := newSnapshot(t).ResolvePriceListPlan("Shotgun", catalog.BillingMonthly, "rescue")
		require.NoError(t, err)
		assert.Equal(t, "shotgun-monthly", plan.Name)
	})

	t.Run("empty name resolves against default list", func(t *testing.T) {
		t.Parallel()

		plan, err := newSnapshot(t).ResolvePriceListPlan("Shotgun", catalog.BillingMonthly, "")
		require.NoError(t, err)
		assert.Equal(t, "shotgun-monthly", plan.Name)
	})

	t.Run("unknown price list", func(t *testing.T) {
		t.Parallel()

		_, err := newSnapshot(t).ResolvePriceListPlan("Shotgun", catalog.BillingMonthly, "enterprise")
		assert.ErrorIs(t, err, catalog.ErrPriceListNotFound)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		t.Parallel()

		plan, err := newSnapshot(t).ResolvePriceListPlan("Shotgun", catalog.BillingAnnual, "rescue")
		require.NoError(t, err)
		assert.Nil(t, plan)
	})

	t.Run("ambiguous match", func(t *testing.T) {
		t.Parallel()

		snapshot := newSnapshot(t)
		// A second monthly shotgun plan in the default list makes the
		// product+period pair ambiguous.
		dup := monthlyPlan(t, "shotgun-monthly-v2", "Shotgun", "260.00")
		require.NoError(t, snapshot.Plans.Add(dup))
		snapshot.PriceLists.Default.Plans = append(snapshot.PriceLists.Default.Plans, dup.Name)

		_, err := snapshot.ResolvePriceListPlan("Shotgun", catalog.BillingMonthly, "")
		assert.ErrorIs(t, err, catalog.ErrAmbiguousPlanForPriceList)
	})
}
