package catalog

// PlanRules is the opaque policy table carried by each snapshot. The
// resolver never consults it; higher-level billing code looks up the policy
// that applies to a subscription event (plan change, cancellation, billing
// alignment) by matching the event against the table's cases.
type PlanRules struct {
	ChangePolicies    []RuleCase
	CancelPolicies    []RuleCase
	CreateAlignments  []RuleCase
	BillingAlignments []RuleCase
}

// RuleCase matches a subscription event by phase type, product, billing
// period and price list; empty fields are wildcards. Policy is the opaque
// outcome consumed by the billing layer.
type RuleCase struct {
	PhaseType     PhaseType
	ProductName   string
	BillingPeriod BillingPeriod
	PriceListName string
	Policy        string
}

// Matches reports whether the case applies to the given event coordinates.
func (c RuleCase) Matches(phaseType PhaseType, productName string, period BillingPeriod, priceList string) bool {
	if c.PhaseType != "" && c.PhaseType != phaseType {
		return false
	}
	if c.ProductName != "" && c.ProductName != productName {
		return false
	}
	if c.BillingPeriod != "" && c.BillingPeriod != period {
		return false
	}
	if c.PriceListName != "" && c.PriceListName != priceList {
		return false
	}
	return true
}

// match returns the policy of the first applicable case, cases are ordered
// most specific first by the catalog author.
func match(cases []RuleCase, phaseType PhaseType, productName string, period BillingPeriod, priceList string) (string, bool) {
	for _, c := range cases {
		if c.Matches(phaseType, productName, period, priceList) {
			return c.Policy, true
		}
	}
	return "", false
}

// ChangePolicy returns the plan-change policy for the given event.
func (r *PlanRules) ChangePolicy(phaseType PhaseType, productName string, period BillingPeriod, priceList string) (string, bool) {
	return match(r.ChangePolicies, phaseType, productName, period, priceList)
}

// CancelPolicy returns the cancellation policy for the given event.
func (r *PlanRules) CancelPolicy(phaseType PhaseType, productName string, period BillingPeriod, priceList string) (string, bool) {
	return match(r.CancelPolicies, phaseType, productName, period, priceList)
}

// CreateAlignment returns the bundle alignment policy for a new subscription.
func (r *PlanRules) CreateAlignment(phaseType PhaseType, productName string, period BillingPeriod, priceList string) (string, bool) {
	return match(r.CreateAlignments, phaseType, productName, period, priceList)
}

// BillingAlignment returns the billing alignment policy for the given event.
func (r *PlanRules) BillingAlignment(phaseType PhaseType, productName string, period BillingPeriod, priceList string) (string, bool) {
	return match(r.BillingAlignments, phaseType, productName, period, priceList)
}
