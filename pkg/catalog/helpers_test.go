package catalog_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func mustPrice(t *testing.T, currency, amount string) *catalog.InternationalPrice {
	t.Helper()
	table, err := catalog.NewInternationalPrice(catalog.Price{
		Currency: currency,
		Value:    decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return table
}

// monthlyPlan builds a plan with a 30 day free trial and an evergreen
// monthly recurring price.
func monthlyPlan(t *testing.T, name, product, monthlyUSD string) *catalog.Plan {
	t.Helper()
	return &catalog.Plan{
		Name:                 name,
		ProductName:          product,
		PriceListName:        catalog.DefaultPriceListName,
		PlansAllowedInBundle: 1,
		InitialPhases: []*catalog.PlanPhase{{
			Type:     catalog.PhaseTrial,
			Duration: catalog.Duration{Unit: catalog.TimeUnitDays, Number: 30},
			Fixed:    mustPrice(t, "USD", "0"),
		}},
		FinalPhase: &catalog.PlanPhase{
			Type:     catalog.PhaseEvergreen,
			Duration: catalog.UnlimitedDuration,
			Recurring: &catalog.Recurring{
				BillingPeriod: catalog.BillingMonthly,
				Price:         mustPrice(t, "USD", monthlyUSD),
			},
		},
	}
}

// testSnapshot builds a valid snapshot holding the given plans, creating a
// base product per distinct product name and exposing every plan through
// the default price list.
func testSnapshot(t *testing.T, name string, effective time.Time, plans ...*catalog.Plan) *catalog.Snapshot {
	t.Helper()

	snapshot := catalog.NewSnapshot(name, effective)
	snapshot.Currencies = []string{"USD"}

	for _, plan := range plans {
		if _, ok := snapshot.Products.Get(plan.ProductName); !ok {
			require.NoError(t, snapshot.Products.Add(&catalog.Product{
				Name:     plan.ProductName,
				Category: catalog.ProductBase,
			}))
		}
		require.NoError(t, snapshot.Plans.Add(plan))
		snapshot.PriceLists.Default.Plans = append(snapshot.PriceLists.Default.Plans, plan.Name)
	}
	require.Empty(t, snapshot.Validate())
	return snapshot
}

func evergreenUSD(t *testing.T, plan *catalog.Plan) decimal.Decimal {
	t.Helper()
	value, err := plan.FinalPhase.Recurring.Price.Value("USD")
	require.NoError(t, err)
	return value
}
