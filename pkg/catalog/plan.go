package catalog

import "time"

// Plan is a named pricing structure: zero or more initial phases followed by
// exactly one terminal evergreen phase. A plan belongs to one product and is
// exposed through one price list. Its name is unique within a snapshot.
type Plan struct {
	Name          string
	ProductName   string
	PriceListName string
	InitialPhases []*PlanPhase
	FinalPhase    *PlanPhase

	// EffectiveDateForExistingSubscriptions controls grandfathering: nil
	// means this definition applies to pre-existing subscriptions
	// immediately; a non-nil instant means they only adopt it once that
	// instant passes.
	EffectiveDateForExistingSubscriptions *time.Time

	// PlansAllowedInBundle caps how many subscriptions to this plan a
	// single bundle may hold. Defaults to 1; UnlimitedPlansInBundle lifts
	// the cap.
	PlansAllowedInBundle int
}

// EntityName implements Named for name-keyed collections.
func (p *Plan) EntityName() string { return p.Name }

// Phases returns all phases in subscription lifetime order, terminal last.
func (p *Plan) Phases() []*PlanPhase {
	phases := make([]*PlanPhase, 0, len(p.InitialPhases)+1)
	phases = append(phases, p.InitialPhases...)
	if p.FinalPhase != nil {
		phases = append(phases, p.FinalPhase)
	}
	return phases
}

// Phase returns the phase of the given type, or ErrNoSuchPhase.
func (p *Plan) Phase(phaseType PhaseType) (*PlanPhase, error) {
	for _, phase := range p.Phases() {
		if phase.Type == phaseType {
			return phase, nil
		}
	}
	return nil, ErrNoSuchPhase
}

// RecurringBillingPeriod returns the billing period of the terminal phase.
// Price-list lookups match plans on this period.
func (p *Plan) RecurringBillingPeriod() BillingPeriod {
	return p.FinalPhase.BillingPeriod()
}

// EffectiveFor reports whether this plan definition, taken from a snapshot
// effective at catalogDate, applies to a subscription started at
// subscriptionStart when observed at asOf. New subscriptions (started at or
// after catalogDate) always qualify; pre-existing ones qualify once the
// plan's effective date for existing subscriptions has passed, or
// immediately when none is set.
func (p *Plan) EffectiveFor(catalogDate, asOf, subscriptionStart time.Time) bool {
	if !subscriptionStart.Before(catalogDate) {
		return true
	}
	if p.EffectiveDateForExistingSubscriptions == nil {
		return true
	}
	return !asOf.Before(*p.EffectiveDateForExistingSubscriptions)
}
