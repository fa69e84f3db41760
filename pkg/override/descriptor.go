package override

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

// PhaseOverride replaces one or more prices of a single plan phase for one
// currency. PhaseName is the qualified phase name ("shotgun-monthly-trial");
// nil replacement fields leave the corresponding component untouched. At
// least one replacement must be set.
type PhaseOverride struct {
	PhaseName      string
	Currency       string
	FixedPrice     *decimal.Decimal
	RecurringPrice *decimal.Decimal
	UsagePrices    []UsagePriceOverride
}

// UsagePriceOverride replaces the per-block amounts of one usage component.
// BlockPrices are applied positionally across the component's tiers and
// blocks and must match their total count.
type UsagePriceOverride struct {
	UsageName   string
	BlockPrices []decimal.Decimal
}

// hasReplacement reports whether the override actually replaces anything.
func (o PhaseOverride) hasReplacement() bool {
	return o.FixedPrice != nil || o.RecurringPrice != nil || len(o.UsagePrices) > 0
}

// fingerprint returns a stable digest of a source plan definition plus a
// descriptor list, used to guarantee at most one physical variant per
// distinct override combination. The digest covers the plan's pricing
// content, not just its name: the same name denotes different definitions
// across catalog versions, and a variant derived from one definition must
// never be served for another.
func fingerprint(plan *catalog.Plan, overrides []PhaseOverride) string {
	var b strings.Builder
	writePlan(&b, plan)
	for _, o := range overrides {
		fmt.Fprintf(&b, "|%s:%s", o.PhaseName, o.Currency)
		if o.FixedPrice != nil {
			fmt.Fprintf(&b, ":f=%s", o.FixedPrice)
		}
		if o.RecurringPrice != nil {
			fmt.Fprintf(&b, ":r=%s", o.RecurringPrice)
		}
		for _, u := range o.UsagePrices {
			fmt.Fprintf(&b, ":u=%s", u.UsageName)
			for _, p := range u.BlockPrices {
				fmt.Fprintf(&b, ",%s", p)
			}
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writePlan(b *strings.Builder, plan *catalog.Plan) {
	b.WriteString(plan.Name)
	if plan.EffectiveDateForExistingSubscriptions != nil {
		fmt.Fprintf(b, "@%d", plan.EffectiveDateForExistingSubscriptions.Unix())
	}
	for _, phase := range plan.Phases() {
		fmt.Fprintf(b, ";%s:%s/%d", phase.Type, phase.Duration.Unit, phase.Duration.Number)
		writePriceTable(b, "f", phase.Fixed)
		if phase.Recurring != nil {
			fmt.Fprintf(b, ":p=%s", phase.Recurring.BillingPeriod)
			writePriceTable(b, "r", phase.Recurring.Price)
		}
		for _, usage := range phase.Usages {
			fmt.Fprintf(b, ":u=%s", usage.Name)
			for _, tier := range usage.Tiers {
				for _, block := range tier.Blocks {
					writePriceTable(b, "b", block.Price)
				}
			}
		}
	}
}

func writePriceTable(b *strings.Builder, tag string, table *catalog.InternationalPrice) {
	for _, p := range table.Prices() {
		fmt.Fprintf(b, ":%s=%s/%s", tag, p.Currency, p.Value)
	}
}
