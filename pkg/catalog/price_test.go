package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

func TestInternationalPrice_Value(t *testing.T) {
	t.Parallel()

	t.Run("empty table is zero in every currency", func(t *testing.T) {
		t.Parallel()

		table, err := catalog.NewInternationalPrice()
		require.NoError(t, err)

		value, err := table.Value("USD")
		require.NoError(t, err)
		assert.True(t, value.IsZero())

		value, err = table.Value("JPY")
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})

	t.Run("nil table is zero in every currency", func(t *testing.T) {
		t.Parallel()

		var table *catalog.InternationalPrice
		value, err := table.Value("USD")
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})

	t.Run("known currency", func(t *testing.T) {
		t.Parallel()

		table, err := catalog.NewInternationalPrice(
			catalog.Price{Currency: "USD", Value: decimal.RequireFromString("250.00")},
			catalog.Price{Currency: "EUR", Value: decimal.RequireFromString("230.00")},
		)
		require.NoError(t, err)

		value, err := table.Value("EUR")
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("230.00")))
	})

	t.Run("unknown currency in non-empty table", func(t *testing.T) {
		t.Parallel()

		table, err := catalog.NewInternationalPrice(
			catalog.Price{Currency: "USD", Value: decimal.NewFromInt(10)},
		)
		require.NoError(t, err)

		_, err = table.Value("GBP")
		assert.ErrorIs(t, err, catalog.ErrCurrencyNotSupported)
	})

	t.Run("duplicate currency rejected", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.NewInternationalPrice(
			catalog.Price{Currency: "USD", Value: decimal.NewFromInt(10)},
			catalog.Price{Currency: "USD", Value: decimal.NewFromInt(20)},
		)
		assert.ErrorIs(t, err, catalog.ErrDuplicateCurrency)
	})
}

func TestInternationalPrice_WithPrice(t *testing.T) {
	t.Parallel()

	t.Run("replaces existing entry without mutating source", func(t *testing.T) {
		t.Parallel()

		source, err := catalog.NewInternationalPrice(
			catalog.Price{Currency: "USD", Value: decimal.RequireFromString("250.00")},
		)
		require.NoError(t, err)

		derived := source.WithPrice("USD", decimal.RequireFromString("199.95"))

		value, err := derived.Value("USD")
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.RequireFromString("199.95")))

		original, err := source.Value("USD")
		require.NoError(t, err)
		assert.True(t, original.Equal(decimal.RequireFromString("250.00")))
	})

	t.Run("appends a new currency", func(t *testing.T) {
		t.Parallel()

		source, err := catalog.NewInternationalPrice(
			catalog.Price{Currency: "USD", Value: decimal.NewFromInt(100)},
		)
		require.NoError(t, err)

		derived := source.WithPrice("EUR", decimal.NewFromInt(90))

		assert.Equal(t, []string{"USD", "EUR"}, derived.Currencies())
		assert.Equal(t, []string{"USD"}, source.Currencies())
	})

	t.Run("derives from nil table", func(t *testing.T) {
		t.Parallel()

		var source *catalog.InternationalPrice
		derived := source.WithPrice("USD", decimal.NewFromInt(5))

		value, err := derived.Value("USD")
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.NewFromInt(5)))
	})
}

func TestDuration_AddTo(t *testing.T) {
	t.Parallel()

	start := mustTime(t, "2012-01-01T00:00:00Z")

	assert.Equal(t, mustTime(t, "2012-01-31T00:00:00Z"),
		catalog.Duration{Unit: catalog.TimeUnitDays, Number: 30}.AddTo(start))
	assert.Equal(t, mustTime(t, "2012-02-01T00:00:00Z"),
		catalog.Duration{Unit: catalog.TimeUnitMonths, Number: 1}.AddTo(start))
	assert.True(t, catalog.UnlimitedDuration.AddTo(start).IsZero())
	assert.True(t, catalog.UnlimitedDuration.IsUnlimited())
}
