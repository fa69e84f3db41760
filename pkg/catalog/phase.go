package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Recurring is the recurring pricing component of a phase: a price table
// charged once per billing period.
type Recurring struct {
	BillingPeriod BillingPeriod
	Price         *InternationalPrice
}

// TieredBlock prices one block of metered usage within a tier.
// Size is the number of units per block, Max the largest number of blocks
// the tier covers (-1 for unlimited).
type TieredBlock struct {
	Unit  string
	Size  decimal.Decimal
	Max   decimal.Decimal
	Price *InternationalPrice
}

// Tier is an ordered list of blocks within a usage component.
type Tier struct {
	Blocks []TieredBlock
}

// Usage is a metered (tiered) pricing component of a phase.
type Usage struct {
	Name          string
	BillingPeriod BillingPeriod
	Tiers         []Tier
}

// PlanPhase is one stage of a plan's lifecycle. Its identity is the pair
// (plan name, phase type); at most one phase of each type exists per plan.
// A phase must carry at least one of a fixed, recurring or usage component.
type PlanPhase struct {
	Type      PhaseType
	Duration  Duration
	Fixed     *InternationalPrice
	Recurring *Recurring
	Usages    []Usage
}

// BillingPeriod returns the recurring billing period of the phase, or
// BillingNone when the phase has no recurring component.
func (p *PlanPhase) BillingPeriod() BillingPeriod {
	if p == nil || p.Recurring == nil {
		return BillingNone
	}
	return p.Recurring.BillingPeriod
}

// HasPricing reports whether the phase defines at least one pricing
// component.
func (p *PlanPhase) HasPricing() bool {
	return p != nil && (p.Fixed != nil || p.Recurring != nil || len(p.Usages) > 0)
}

// PhaseName returns the qualified name of a phase, e.g.
// "shotgun-monthly-trial" for the trial phase of plan "shotgun-monthly".
func PhaseName(planName string, phaseType PhaseType) string {
	return fmt.Sprintf("%s-%s", planName, strings.ToLower(string(phaseType)))
}

// SplitPhaseName derives the owning plan name and the phase type from a
// qualified phase name by stripping the known phase-type suffix.
// Returns ErrNoSuchPhase when no known suffix matches.
func SplitPhaseName(qualified string) (planName string, phaseType PhaseType, err error) {
	for _, pt := range phaseTypes {
		suffix := "-" + strings.ToLower(string(pt))
		if strings.HasSuffix(qualified, suffix) && len(qualified) > len(suffix) {
			return strings.TrimSuffix(qualified, suffix), pt, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q has no phase type suffix", ErrNoSuchPhase, qualified)
}
