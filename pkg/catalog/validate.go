package catalog

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// ValidationError is a single structural problem found in a catalog.
// Version is the effective date of the snapshot it originates from (zero for
// sequence-level problems) and Location a slash-separated path to the
// offending entity.
type ValidationError struct {
	Version  time.Time
	Location string
	Message  string
}

func (e ValidationError) String() string {
	if e.Version.IsZero() {
		return fmt.Sprintf("%s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Version.Format("2006-01-02"), e.Location, e.Message)
}

// ValidationErrors is the collected result of catalog validation. Checks
// never stop at the first problem so a candidate catalog edit can be
// rejected with its full defect list. An empty list means valid.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "catalog validation failed"
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = e.String()
	}
	return "catalog validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) add(version time.Time, location, format string, args ...any) {
	*ve = append(*ve, ValidationError{
		Version:  version,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validate runs the full cross-version check over the published sequence.
func (vc *VersionedCatalog) Validate() ValidationErrors {
	return validateVersionSet(vc.current.Load().snapshots)
}

// validateVersionSet checks a candidate ordered sequence: unique effective
// dates, a single catalog name, each snapshot's internal invariants, and
// plan shape stability across versions.
func validateVersionSet(snapshots []*Snapshot) ValidationErrors {
	var verrs ValidationErrors

	for i, s := range snapshots {
		if i > 0 && s.EffectiveDate.Equal(snapshots[i-1].EffectiveDate) {
			verrs.add(s.EffectiveDate, "catalog",
				"two catalog versions share effective date %s", s.EffectiveDate.Format(time.RFC3339))
		}
		if s.CatalogName != snapshots[0].CatalogName {
			verrs.add(s.EffectiveDate, "catalog",
				"catalog name %q differs from %q", s.CatalogName, snapshots[0].CatalogName)
		}
		verrs = append(verrs, s.Validate()...)
	}

	// Plan shape stability: a plan surviving into a later version must keep
	// the same ordered phase sequence, or in-flight subscriptions would
	// silently change meaning.
	for i := 0; i < len(snapshots); i++ {
		for j := i + 1; j < len(snapshots); j++ {
			verrs = append(verrs, comparePlanShapes(snapshots[i], snapshots[j])...)
		}
	}

	return verrs
}

func comparePlanShapes(older, newer *Snapshot) ValidationErrors {
	var verrs ValidationErrors
	for _, name := range older.Plans.Names() {
		oldPlan, _ := older.Plans.Get(name)
		newPlan, ok := newer.Plans.Get(name)
		if !ok {
			continue // retired plans are fine, resolution falls back to older versions
		}

		oldPhases := oldPlan.Phases()
		newPhases := newPlan.Phases()
		if len(oldPhases) != len(newPhases) {
			verrs.add(newer.EffectiveDate, "plan/"+name,
				"phase count changed from %d (version %s) to %d",
				len(oldPhases), older.EffectiveDate.Format("2006-01-02"), len(newPhases))
			continue
		}
		for k := range oldPhases {
			if oldPhases[k].Type != newPhases[k].Type {
				verrs.add(newer.EffectiveDate, fmt.Sprintf("plan/%s/phase[%d]", name, k),
					"phase changed from %s (version %s) to %s",
					PhaseName(name, oldPhases[k].Type), older.EffectiveDate.Format("2006-01-02"),
					PhaseName(name, newPhases[k].Type))
			}
		}
	}
	return verrs
}

// Validate checks the snapshot's internal invariants and returns every
// problem found.
func (s *Snapshot) Validate() ValidationErrors {
	var verrs ValidationErrors
	v := s.EffectiveDate

	if s.CatalogName == "" {
		verrs.add(v, "catalog", "catalog name is empty")
	}
	if s.EffectiveDate.IsZero() {
		verrs.add(v, "catalog", "effective date is not set")
	}

	for _, code := range s.Currencies {
		if _, err := currency.ParseISO(code); err != nil {
			verrs.add(v, "currencies", "%q is not a valid ISO 4217 currency code", code)
		}
	}

	for _, product := range s.Products.All() {
		verrs = append(verrs, s.validateProduct(product)...)
	}
	for _, plan := range s.Plans.All() {
		verrs = append(verrs, s.validatePlan(plan)...)
	}
	verrs = append(verrs, s.validatePriceLists()...)

	return verrs
}

func (s *Snapshot) validateProduct(product *Product) ValidationErrors {
	var verrs ValidationErrors
	v := s.EffectiveDate
	loc := "product/" + product.Name

	switch product.Category {
	case ProductBase, ProductAddOn, ProductStandalone:
	default:
		verrs.add(v, loc, "unknown product category %q", product.Category)
	}

	for _, name := range product.Included {
		if _, ok := s.Products.Get(name); !ok {
			verrs.add(v, loc, "included product %q does not exist", name)
		}
	}
	for _, name := range product.Available {
		if _, ok := s.Products.Get(name); !ok {
			verrs.add(v, loc, "available product %q does not exist", name)
		}
	}
	for _, limit := range product.Limits {
		if !s.unitDefined(limit.Unit) {
			verrs.add(v, loc, "limit references undefined unit %q", limit.Unit)
		}
	}
	return verrs
}

func (s *Snapshot) unitDefined(unit string) bool {
	for _, u := range s.Units {
		if u == unit {
			return true
		}
	}
	return false
}

func (s *Snapshot) validatePlan(plan *Plan) ValidationErrors {
	var verrs ValidationErrors
	v := s.EffectiveDate
	loc := "plan/" + plan.Name

	if _, ok := s.Products.Get(plan.ProductName); !ok {
		verrs.add(v, loc, "product %q does not exist", plan.ProductName)
	}
	if _, ok := s.PriceLists.Find(plan.PriceListName); !ok {
		verrs.add(v, loc, "price list %q does not exist", plan.PriceListName)
	}

	if plan.PlansAllowedInBundle < UnlimitedPlansInBundle {
		verrs.add(v, loc, "plansAllowedInBundle must be >= -1, got %d", plan.PlansAllowedInBundle)
	}

	if plan.FinalPhase == nil {
		verrs.add(v, loc, "plan has no final phase")
	} else {
		if plan.FinalPhase.Type != PhaseEvergreen {
			verrs.add(v, loc+"/finalPhase", "final phase must be %s, got %s", PhaseEvergreen, plan.FinalPhase.Type)
		}
		if !plan.FinalPhase.Duration.IsUnlimited() {
			verrs.add(v, loc+"/finalPhase", "final phase duration must be unlimited")
		}
	}

	seen := make(map[PhaseType]struct{})
	for i, phase := range plan.Phases() {
		ploc := fmt.Sprintf("%s/phase[%d]", loc, i)
		if phase != plan.FinalPhase && phase.Type == PhaseEvergreen {
			verrs.add(v, ploc, "initial phase must not be %s", PhaseEvergreen)
		}
		if _, dup := seen[phase.Type]; dup {
			verrs.add(v, ploc, "plan has more than one %s phase", phase.Type)
		}
		seen[phase.Type] = struct{}{}
		verrs = append(verrs, s.validatePhase(ploc, phase)...)
	}
	return verrs
}

func (s *Snapshot) validatePhase(loc string, phase *PlanPhase) ValidationErrors {
	var verrs ValidationErrors
	v := s.EffectiveDate

	if !phase.HasPricing() {
		verrs.add(v, loc, "phase defines none of fixed, recurring or usage pricing")
	}

	if phase.Recurring != nil {
		// A priced recurring component needs a real billing period and a
		// real billing period needs prices, the two fields travel together.
		if phase.Recurring.Price != nil && phase.Recurring.BillingPeriod == BillingNone {
			verrs.add(v, loc, "recurring price is set but billing period is %s", BillingNone)
		}
		if phase.Recurring.Price == nil && phase.Recurring.BillingPeriod != BillingNone {
			verrs.add(v, loc, "billing period %s is set but recurring price is missing", phase.Recurring.BillingPeriod)
		}
		verrs = append(verrs, s.validatePriceTable(loc+"/recurring", phase.Recurring.Price)...)
	}
	verrs = append(verrs, s.validatePriceTable(loc+"/fixed", phase.Fixed)...)

	for _, usage := range phase.Usages {
		uloc := loc + "/usage/" + usage.Name
		for _, tier := range usage.Tiers {
			for _, block := range tier.Blocks {
				if !s.unitDefined(block.Unit) {
					verrs.add(v, uloc, "block references undefined unit %q", block.Unit)
				}
				verrs = append(verrs, s.validatePriceTable(uloc, block.Price)...)
			}
		}
	}
	return verrs
}

func (s *Snapshot) validatePriceTable(loc string, table *InternationalPrice) ValidationErrors {
	var verrs ValidationErrors
	for _, price := range table.Prices() {
		if !s.CurrencySupported(price.Currency) {
			verrs.add(s.EffectiveDate, loc, "currency %q is not in the catalog's supported set", price.Currency)
		}
		if price.Value.IsNegative() {
			verrs.add(s.EffectiveDate, loc, "negative price %s %s", price.Value, price.Currency)
		}
	}
	return verrs
}

func (s *Snapshot) validatePriceLists() ValidationErrors {
	var verrs ValidationErrors
	v := s.EffectiveDate

	if s.PriceLists.Default == nil {
		verrs.add(v, "priceList", "catalog has no default price list")
	} else if s.PriceLists.Default.Name != DefaultPriceListName {
		verrs.add(v, "priceList/"+s.PriceLists.Default.Name,
			"default price list must be named %q", DefaultPriceListName)
	}

	seen := make(map[string]struct{})
	for _, list := range s.PriceLists.All() {
		loc := "priceList/" + list.Name
		if _, dup := seen[list.Name]; dup {
			verrs.add(v, loc, "duplicate price list name")
		}
		seen[list.Name] = struct{}{}
		if list != s.PriceLists.Default && list.Name == DefaultPriceListName {
			verrs.add(v, loc, "%q is reserved for the default price list", DefaultPriceListName)
		}
		for _, planName := range list.Plans {
			if _, ok := s.Plans.Get(planName); !ok {
				verrs.add(v, loc, "plan %q does not exist", planName)
			}
		}
	}
	return verrs
}
