package catalog

import (
	"fmt"
	"time"
)

// Snapshot is one dated, self-consistent catalog configuration. Snapshots
// are immutable once published: they may be read concurrently without
// locking and must never be modified after being handed to a
// VersionedCatalog. Construction happens in the loader or the builder, both
// of which run Validate before handing a snapshot over.
type Snapshot struct {
	EffectiveDate time.Time
	CatalogName   string
	Currencies    []string
	Units         []string
	Products      *Collection[*Product]
	Plans         *Collection[*Plan]
	PriceLists    PriceListSet
	Rules         PlanRules
}

// NewSnapshot returns an empty snapshot with initialized collections and a
// default price list.
func NewSnapshot(name string, effectiveDate time.Time) *Snapshot {
	return &Snapshot{
		EffectiveDate: effectiveDate,
		CatalogName:   name,
		Products:      NewCollection[*Product](),
		Plans:         NewCollection[*Plan](),
		PriceLists: PriceListSet{
			Default: &PriceList{Name: DefaultPriceListName},
		},
	}
}

// CurrencySupported reports whether the snapshot supports the currency.
func (s *Snapshot) CurrencySupported(currency string) bool {
	for _, c := range s.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

// FindPlan returns the plan with the given name.
func (s *Snapshot) FindPlan(name string) (*Plan, error) {
	plan, ok := s.Plans.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchPlan, name)
	}
	return plan, nil
}

// FindProduct returns the product with the given name.
func (s *Snapshot) FindProduct(name string) (*Product, error) {
	product, ok := s.Products.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchProduct, name)
	}
	return product, nil
}

// FindPhase resolves a qualified phase name such as "shotgun-monthly-trial"
// by stripping the phase-type suffix, looking up the owning plan and
// returning its phase of that type.
func (s *Snapshot) FindPhase(qualifiedName string) (*PlanPhase, error) {
	planName, phaseType, err := SplitPhaseName(qualifiedName)
	if err != nil {
		return nil, err
	}
	plan, err := s.FindPlan(planName)
	if err != nil {
		return nil, err
	}
	phase, err := plan.Phase(phaseType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchPhase, qualifiedName)
	}
	return phase, nil
}

// ResolvePriceListPlan selects the plan a price list exposes for the given
// product and recurring billing period. When the named list has no match the
// search falls back to the default list. A combined match set with more than
// one entry is an authoring error (ErrAmbiguousPlanForPriceList). No match
// at all returns nil with no error; callers turn that into "plan not found".
func (s *Snapshot) ResolvePriceListPlan(productName string, period BillingPeriod, priceListName string) (*Plan, error) {
	list, ok := s.PriceLists.Find(priceListName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPriceListNotFound, priceListName)
	}

	matches := s.matchPlans(list, productName, period)
	if len(matches) == 0 && list != s.PriceLists.Default {
		matches = s.matchPlans(s.PriceLists.Default, productName, period)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: product %q period %q in list %q",
			ErrAmbiguousPlanForPriceList, productName, period, list.Name)
	}
}

func (s *Snapshot) matchPlans(list *PriceList, productName string, period BillingPeriod) []*Plan {
	if list == nil {
		return nil
	}
	var matches []*Plan
	for _, planName := range list.Plans {
		plan, ok := s.Plans.Get(planName)
		if !ok {
			continue // dangling reference, reported by Validate
		}
		if plan.ProductName == productName && plan.RecurringBillingPeriod() == period {
			matches = append(matches, plan)
		}
	}
	return matches
}
