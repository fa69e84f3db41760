package catalog

import "time"

// ProductCategory classifies a product within a bundle.
type ProductCategory string

const (
	ProductBase       ProductCategory = "BASE"
	ProductAddOn      ProductCategory = "ADD_ON"
	ProductStandalone ProductCategory = "STANDALONE"
)

// PhaseType identifies a stage of a plan's lifecycle.
type PhaseType string

const (
	PhaseTrial     PhaseType = "TRIAL"
	PhaseDiscount  PhaseType = "DISCOUNT"
	PhaseFixedTerm PhaseType = "FIXEDTERM"
	PhaseEvergreen PhaseType = "EVERGREEN"
)

// phaseTypes in suffix-matching order for qualified phase names.
var phaseTypes = []PhaseType{PhaseTrial, PhaseDiscount, PhaseFixedTerm, PhaseEvergreen}

// BillingPeriod represents the recurring billing frequency of a phase.
type BillingPeriod string

const (
	BillingDaily     BillingPeriod = "DAILY"
	BillingWeekly    BillingPeriod = "WEEKLY"
	BillingMonthly   BillingPeriod = "MONTHLY"
	BillingQuarterly BillingPeriod = "QUARTERLY"
	BillingBiannual  BillingPeriod = "BIANNUAL"
	BillingAnnual    BillingPeriod = "ANNUAL"

	// BillingNone is the sentinel used by phases that carry no recurring
	// price (e.g. free trials); optional billing-period fields are never
	// left empty, they default to this value.
	BillingNone BillingPeriod = "NO_BILLING_PERIOD"
)

// TimeUnit is the unit of a phase duration.
type TimeUnit string

const (
	TimeUnitDays   TimeUnit = "DAYS"
	TimeUnitWeeks  TimeUnit = "WEEKS"
	TimeUnitMonths TimeUnit = "MONTHS"
	TimeUnitYears  TimeUnit = "YEARS"

	// TimeUnitUnlimited marks the open-ended duration of a terminal phase.
	TimeUnitUnlimited TimeUnit = "UNLIMITED"
)

// Duration is a phase length expressed as a count of time units.
// The terminal phase of every plan uses {TimeUnitUnlimited, -1}.
type Duration struct {
	Unit   TimeUnit
	Number int
}

// UnlimitedDuration is the duration of a terminal (evergreen) phase.
var UnlimitedDuration = Duration{Unit: TimeUnitUnlimited, Number: -1}

// IsUnlimited reports whether the duration never ends.
func (d Duration) IsUnlimited() bool {
	return d.Unit == TimeUnitUnlimited
}

// AddTo returns the instant at which a phase started at t ends.
// For unlimited durations the zero time is returned.
func (d Duration) AddTo(t time.Time) time.Time {
	switch d.Unit {
	case TimeUnitDays:
		return t.AddDate(0, 0, d.Number)
	case TimeUnitWeeks:
		return t.AddDate(0, 0, 7*d.Number)
	case TimeUnitMonths:
		return t.AddDate(0, d.Number, 0)
	case TimeUnitYears:
		return t.AddDate(d.Number, 0, 0)
	default:
		return time.Time{}
	}
}

// UnlimitedPlansInBundle is the PlansAllowedInBundle value that lifts the
// cardinality constraint.
const UnlimitedPlansInBundle = -1
