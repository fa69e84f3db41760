package override

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

// SimplePlanDescriptor is the flat input of the programmatic catalog
// builder: one product, one plan, one currency, an optional trial.
type SimplePlanDescriptor struct {
	PlanID          string
	ProductName     string
	ProductCategory catalog.ProductCategory
	Currency        string
	Amount          decimal.Decimal
	BillingPeriod   catalog.BillingPeriod
	TrialLength     int
	TrialTimeUnit   catalog.TimeUnit

	// AvailableBaseProducts lists the existing base products an add-on
	// attaches to. Required (non-empty) when ProductCategory is ADD_ON.
	AvailableBaseProducts []string
}

func (d SimplePlanDescriptor) hasTrial() bool {
	return d.TrialLength > 0 && d.TrialTimeUnit != "" && d.TrialTimeUnit != catalog.TimeUnitUnlimited
}

// CatalogBuilder incrementally builds a staging snapshot from simple plan
// descriptors and adopted plan variants. The staging snapshot is mutable
// through the builder only; Snapshot() hands it over for publication, after
// which the builder must not be used again. This keeps the mutable
// construction path separate from the immutable query path.
type CatalogBuilder struct {
	snapshot *catalog.Snapshot
}

// NewCatalogBuilder starts an empty staging snapshot.
func NewCatalogBuilder(catalogName string, effectiveDate time.Time) *CatalogBuilder {
	return &CatalogBuilder{snapshot: catalog.NewSnapshot(catalogName, effectiveDate)}
}

// AddSimplePlan creates the descriptor's product and plan in the staging
// snapshot, or augments an existing plan with a new currency. Re-adding a
// descriptor for an existing plan is permitted only when it is compatible
// with the existing trial and evergreen shape; any mismatch fails with
// ErrFailedSimplePlanValidation rather than silently overwriting.
func (b *CatalogBuilder) AddSimplePlan(d SimplePlanDescriptor) error {
	if err := b.validateDescriptor(d); err != nil {
		return err
	}
	if err := b.ensureProduct(d); err != nil {
		return err
	}

	existing, ok := b.snapshot.Plans.Get(d.PlanID)
	if ok {
		if err := b.augmentPlan(existing, d); err != nil {
			return err
		}
	} else if err := b.createPlan(d); err != nil {
		return err
	}

	// Only a fully accepted descriptor may extend the supported set; a
	// rejected re-add must leave the staging snapshot as it was.
	if !b.snapshot.CurrencySupported(d.Currency) {
		b.snapshot.Currencies = append(b.snapshot.Currencies, d.Currency)
	}
	return nil
}

func (b *CatalogBuilder) validateDescriptor(d SimplePlanDescriptor) error {
	if d.PlanID == "" {
		return fmt.Errorf("%w: plan ID is required", ErrFailedSimplePlanValidation)
	}
	if d.ProductName == "" {
		return fmt.Errorf("%w: product name is required", ErrFailedSimplePlanValidation)
	}
	if d.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrFailedSimplePlanValidation)
	}
	if d.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be non-negative, got %s", ErrFailedSimplePlanValidation, d.Amount)
	}
	if d.BillingPeriod == "" || d.BillingPeriod == catalog.BillingNone {
		return fmt.Errorf("%w: billing period is required", ErrFailedSimplePlanValidation)
	}
	switch d.ProductCategory {
	case catalog.ProductBase, catalog.ProductStandalone:
	case catalog.ProductAddOn:
		if len(d.AvailableBaseProducts) == 0 {
			return fmt.Errorf("%w: add-on %q lists no base products", ErrFailedSimplePlanValidation, d.ProductName)
		}
		for _, base := range d.AvailableBaseProducts {
			if _, ok := b.snapshot.Products.Get(base); !ok {
				return fmt.Errorf("%w: base product %q does not exist", ErrFailedSimplePlanValidation, base)
			}
		}
	default:
		return fmt.Errorf("%w: unknown product category %q", ErrFailedSimplePlanValidation, d.ProductCategory)
	}
	return nil
}

func (b *CatalogBuilder) ensureProduct(d SimplePlanDescriptor) error {
	product, ok := b.snapshot.Products.Get(d.ProductName)
	if !ok {
		product = &catalog.Product{Name: d.ProductName, Category: d.ProductCategory}
		if err := b.snapshot.Products.Add(product); err != nil {
			return err
		}
	} else if product.Category != d.ProductCategory {
		return fmt.Errorf("%w: product %q is %s, descriptor says %s",
			ErrFailedSimplePlanValidation, d.ProductName, product.Category, d.ProductCategory)
	}

	// An add-on becomes purchasable alongside each of its base products.
	for _, baseName := range d.AvailableBaseProducts {
		base, _ := b.snapshot.Products.Get(baseName)
		if !base.IsAvailable(d.ProductName) {
			base.Available = append(base.Available, d.ProductName)
		}
	}
	return nil
}

func (b *CatalogBuilder) createPlan(d SimplePlanDescriptor) error {
	plan := &catalog.Plan{
		Name:                 d.PlanID,
		ProductName:          d.ProductName,
		PriceListName:        catalog.DefaultPriceListName,
		PlansAllowedInBundle: 1,
	}

	if d.hasTrial() {
		zero, _ := catalog.NewInternationalPrice(catalog.Price{Currency: d.Currency, Value: decimal.Zero})
		plan.InitialPhases = append(plan.InitialPhases, &catalog.PlanPhase{
			Type:     catalog.PhaseTrial,
			Duration: catalog.Duration{Unit: d.TrialTimeUnit, Number: d.TrialLength},
			Fixed:    zero,
		})
	}

	price, _ := catalog.NewInternationalPrice(catalog.Price{Currency: d.Currency, Value: d.Amount})
	plan.FinalPhase = &catalog.PlanPhase{
		Type:     catalog.PhaseEvergreen,
		Duration: catalog.UnlimitedDuration,
		Recurring: &catalog.Recurring{
			BillingPeriod: d.BillingPeriod,
			Price:         price,
		},
	}

	if err := b.snapshot.Plans.Add(plan); err != nil {
		return err
	}
	b.snapshot.PriceLists.Default.Plans = append(b.snapshot.PriceLists.Default.Plans, plan.Name)
	return nil
}

// augmentPlan re-applies a descriptor to an existing plan: the shape must
// match, and a currency the plan does not price yet is added with a zero
// trial price and the descriptor's recurring amount.
func (b *CatalogBuilder) augmentPlan(plan *catalog.Plan, d SimplePlanDescriptor) error {
	trial, trialErr := plan.Phase(catalog.PhaseTrial)
	if d.hasTrial() != (trialErr == nil) {
		return fmt.Errorf("%w: plan %q trial presence differs from descriptor", ErrFailedSimplePlanValidation, plan.Name)
	}
	if trialErr == nil {
		if trial.Duration.Number != d.TrialLength || trial.Duration.Unit != d.TrialTimeUnit {
			return fmt.Errorf("%w: plan %q trial is %d %s, descriptor says %d %s",
				ErrFailedSimplePlanValidation, plan.Name,
				trial.Duration.Number, trial.Duration.Unit, d.TrialLength, d.TrialTimeUnit)
		}
	}

	recurring := plan.FinalPhase.Recurring
	if recurring == nil || recurring.BillingPeriod != d.BillingPeriod {
		return fmt.Errorf("%w: plan %q billing period is %s, descriptor says %s",
			ErrFailedSimplePlanValidation, plan.Name, plan.RecurringBillingPeriod(), d.BillingPeriod)
	}

	for _, price := range recurring.Price.Prices() {
		if price.Currency != d.Currency {
			continue
		}
		if !price.Value.Equal(d.Amount) {
			return fmt.Errorf("%w: plan %q already prices %s at %s, descriptor says %s",
				ErrFailedSimplePlanValidation, plan.Name, d.Currency, price.Value, d.Amount)
		}
		return nil // identical re-add is a no-op
	}

	// New currency: backfill a zero trial price, set the recurring price
	// from the descriptor.
	if trialErr == nil {
		trial.Fixed = trial.Fixed.WithPrice(d.Currency, decimal.Zero)
	}
	recurring.Price = recurring.Price.WithPrice(d.Currency, d.Amount)
	return nil
}

// AdoptVariant adds an override-engine plan variant to the staging snapshot,
// extending the supported currency set with any currency the variant prices
// that the catalog does not support yet. A name collision is a caller error.
func (b *CatalogBuilder) AdoptVariant(variant *catalog.Plan) error {
	if variant == nil {
		return fmt.Errorf("%w: nil variant", ErrInvalidOverride)
	}
	if _, exists := b.snapshot.Plans.Get(variant.Name); exists {
		return fmt.Errorf("%w: %q", ErrVariantNameCollision, variant.Name)
	}
	if err := b.snapshot.Plans.Add(variant); err != nil {
		return err
	}

	for _, phase := range variant.Phases() {
		for _, currency := range phaseCurrencies(phase) {
			if !b.snapshot.CurrencySupported(currency) {
				b.snapshot.Currencies = append(b.snapshot.Currencies, currency)
			}
		}
	}
	return nil
}

func phaseCurrencies(phase *catalog.PlanPhase) []string {
	var codes []string
	codes = append(codes, phase.Fixed.Currencies()...)
	if phase.Recurring != nil {
		codes = append(codes, phase.Recurring.Price.Currencies()...)
	}
	for _, usage := range phase.Usages {
		for _, tier := range usage.Tiers {
			for _, block := range tier.Blocks {
				codes = append(codes, block.Price.Currencies()...)
			}
		}
	}
	return codes
}

// Snapshot validates the staging snapshot and hands it over for
// publication. A non-empty validation result is returned as the error and
// the snapshot is withheld.
func (b *CatalogBuilder) Snapshot() (*catalog.Snapshot, error) {
	if verrs := b.snapshot.Validate(); len(verrs) > 0 {
		return nil, verrs
	}
	return b.snapshot, nil
}
