package loader

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

// Document mirrors the YAML catalog document. Optional fields are plain
// values or pointers whose defaults are filled in explicitly during
// conversion, so the snapshot handed to the engine never carries unset
// optional fields.
type Document struct {
	CatalogName   string             `yaml:"catalogName"`
	EffectiveDate time.Time          `yaml:"effectiveDate"`
	Currencies    []string           `yaml:"currencies"`
	Units         []string           `yaml:"units"`
	Products      []ProductDocument  `yaml:"products"`
	Plans         []PlanDocument     `yaml:"plans"`
	PriceLists    PriceListsDocument `yaml:"priceLists"`
	Rules         RulesDocument      `yaml:"rules"`
}

type ProductDocument struct {
	Name      string          `yaml:"name"`
	Category  string          `yaml:"category"`
	Included  []string        `yaml:"included"`
	Available []string        `yaml:"available"`
	Limits    []LimitDocument `yaml:"limits"`
}

type LimitDocument struct {
	Unit string `yaml:"unit"`
	Min  string `yaml:"min"`
	Max  string `yaml:"max"`
}

type PlanDocument struct {
	Name                                  string          `yaml:"name"`
	Product                               string          `yaml:"product"`
	PriceList                             string          `yaml:"priceList"` // default DEFAULT
	EffectiveDateForExistingSubscriptions *time.Time      `yaml:"effectiveDateForExistingSubscriptions"`
	PlansAllowedInBundle                  *int            `yaml:"plansAllowedInBundle"` // default 1
	InitialPhases                         []PhaseDocument `yaml:"initialPhases"`
	FinalPhase                            PhaseDocument   `yaml:"finalPhase"`
}

type PhaseDocument struct {
	Type      string             `yaml:"type"`
	Duration  *DurationDocument  `yaml:"duration"`
	Fixed     []PriceDocument    `yaml:"fixed"`
	Recurring *RecurringDocument `yaml:"recurring"`
	Usages    []UsageDocument    `yaml:"usages"`
}

type DurationDocument struct {
	Unit   string `yaml:"unit"`
	Number int    `yaml:"number"`
}

type RecurringDocument struct {
	BillingPeriod string          `yaml:"billingPeriod"`
	Prices        []PriceDocument `yaml:"prices"`
}

type PriceDocument struct {
	Currency string `yaml:"currency"`
	Amount   string `yaml:"amount"`
}

type UsageDocument struct {
	Name          string         `yaml:"name"`
	BillingPeriod string         `yaml:"billingPeriod"`
	Tiers         []TierDocument `yaml:"tiers"`
}

type TierDocument struct {
	Blocks []BlockDocument `yaml:"blocks"`
}

type BlockDocument struct {
	Unit   string          `yaml:"unit"`
	Size   string          `yaml:"size"`
	Max    string          `yaml:"max"`
	Prices []PriceDocument `yaml:"prices"`
}

type PriceListsDocument struct {
	Default  []string            `yaml:"default"`
	Children []PriceListDocument `yaml:"children"`
}

type PriceListDocument struct {
	Name  string   `yaml:"name"`
	Plans []string `yaml:"plans"`
}

type RulesDocument struct {
	ChangePolicies    []RuleCaseDocument `yaml:"changePolicies"`
	CancelPolicies    []RuleCaseDocument `yaml:"cancelPolicies"`
	CreateAlignments  []RuleCaseDocument `yaml:"createAlignments"`
	BillingAlignments []RuleCaseDocument `yaml:"billingAlignments"`
}

type RuleCaseDocument struct {
	PhaseType     string `yaml:"phaseType"`
	Product       string `yaml:"product"`
	BillingPeriod string `yaml:"billingPeriod"`
	PriceList     string `yaml:"priceList"`
	Policy        string `yaml:"policy"`
}

// Parse decodes a YAML catalog document into a fully populated snapshot,
// fills defaults for omitted optional fields and runs the snapshot's own
// validation before handing it over. Validation problems are returned as a
// catalog.ValidationErrors value.
func Parse(data []byte) (*catalog.Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrMalformedDocument, err)
	}
	return Build(&doc)
}

// Build converts an already decoded document into a validated snapshot.
func Build(doc *Document) (*catalog.Snapshot, error) {
	snapshot := catalog.NewSnapshot(doc.CatalogName, doc.EffectiveDate.UTC())
	snapshot.Currencies = doc.Currencies
	snapshot.Units = doc.Units

	for _, pd := range doc.Products {
		product, err := buildProduct(pd)
		if err != nil {
			return nil, err
		}
		if err := snapshot.Products.Add(product); err != nil {
			return nil, errors.Join(ErrMalformedDocument, err)
		}
	}

	for _, pd := range doc.Plans {
		plan, err := buildPlan(pd)
		if err != nil {
			return nil, err
		}
		if err := snapshot.Plans.Add(plan); err != nil {
			return nil, errors.Join(ErrMalformedDocument, err)
		}
	}

	snapshot.PriceLists.Default.Plans = doc.PriceLists.Default
	for _, ld := range doc.PriceLists.Children {
		snapshot.PriceLists.Children = append(snapshot.PriceLists.Children, &catalog.PriceList{
			Name:  ld.Name,
			Plans: ld.Plans,
		})
	}

	snapshot.Rules = catalog.PlanRules{
		ChangePolicies:    buildRuleCases(doc.Rules.ChangePolicies),
		CancelPolicies:    buildRuleCases(doc.Rules.CancelPolicies),
		CreateAlignments:  buildRuleCases(doc.Rules.CreateAlignments),
		BillingAlignments: buildRuleCases(doc.Rules.BillingAlignments),
	}

	if verrs := snapshot.Validate(); len(verrs) > 0 {
		return nil, verrs
	}
	return snapshot, nil
}

func buildProduct(pd ProductDocument) (*catalog.Product, error) {
	product := &catalog.Product{
		Name:      pd.Name,
		Category:  catalog.ProductCategory(pd.Category),
		Included:  pd.Included,
		Available: pd.Available,
	}
	if product.Category == "" {
		product.Category = catalog.ProductBase
	}
	for _, ld := range pd.Limits {
		min, err := parseAmount(ld.Min, decimal.NewFromInt(-1))
		if err != nil {
			return nil, fmt.Errorf("product %q limit %q: %w", pd.Name, ld.Unit, err)
		}
		max, err := parseAmount(ld.Max, decimal.NewFromInt(-1))
		if err != nil {
			return nil, fmt.Errorf("product %q limit %q: %w", pd.Name, ld.Unit, err)
		}
		product.Limits = append(product.Limits, catalog.Limit{Unit: ld.Unit, Min: min, Max: max})
	}
	return product, nil
}

func buildPlan(pd PlanDocument) (*catalog.Plan, error) {
	plan := &catalog.Plan{
		Name:                 pd.Name,
		ProductName:          pd.Product,
		PriceListName:        pd.PriceList,
		PlansAllowedInBundle: 1,
	}
	if plan.PriceListName == "" {
		plan.PriceListName = catalog.DefaultPriceListName
	}
	if pd.PlansAllowedInBundle != nil {
		plan.PlansAllowedInBundle = *pd.PlansAllowedInBundle
	}
	if pd.EffectiveDateForExistingSubscriptions != nil {
		utc := pd.EffectiveDateForExistingSubscriptions.UTC()
		plan.EffectiveDateForExistingSubscriptions = &utc
	}

	for i, phd := range pd.InitialPhases {
		phase, err := buildPhase(phd, false)
		if err != nil {
			return nil, fmt.Errorf("plan %q phase[%d]: %w", pd.Name, i, err)
		}
		plan.InitialPhases = append(plan.InitialPhases, phase)
	}

	final, err := buildPhase(pd.FinalPhase, true)
	if err != nil {
		return nil, fmt.Errorf("plan %q final phase: %w", pd.Name, err)
	}
	plan.FinalPhase = final
	return plan, nil
}

func buildPhase(phd PhaseDocument, final bool) (*catalog.PlanPhase, error) {
	phase := &catalog.PlanPhase{Type: catalog.PhaseType(phd.Type)}
	if phase.Type == "" && final {
		phase.Type = catalog.PhaseEvergreen
	}

	switch {
	case phd.Duration != nil:
		phase.Duration = catalog.Duration{
			Unit:   catalog.TimeUnit(phd.Duration.Unit),
			Number: phd.Duration.Number,
		}
	case final:
		phase.Duration = catalog.UnlimitedDuration
	}

	if len(phd.Fixed) > 0 {
		table, err := buildPriceTable(phd.Fixed)
		if err != nil {
			return nil, err
		}
		phase.Fixed = table
	}

	if phd.Recurring != nil {
		table, err := buildPriceTable(phd.Recurring.Prices)
		if err != nil {
			return nil, err
		}
		period := catalog.BillingPeriod(phd.Recurring.BillingPeriod)
		if period == "" {
			period = catalog.BillingNone
		}
		phase.Recurring = &catalog.Recurring{BillingPeriod: period, Price: table}
	}

	for _, ud := range phd.Usages {
		usage, err := buildUsage(ud)
		if err != nil {
			return nil, err
		}
		phase.Usages = append(phase.Usages, usage)
	}
	return phase, nil
}

func buildUsage(ud UsageDocument) (catalog.Usage, error) {
	period := catalog.BillingPeriod(ud.BillingPeriod)
	if period == "" {
		period = catalog.BillingNone
	}
	usage := catalog.Usage{Name: ud.Name, BillingPeriod: period}
	for _, td := range ud.Tiers {
		var tier catalog.Tier
		for _, bd := range td.Blocks {
			size, err := parseAmount(bd.Size, decimal.NewFromInt(1))
			if err != nil {
				return usage, fmt.Errorf("usage %q: %w", ud.Name, err)
			}
			max, err := parseAmount(bd.Max, decimal.NewFromInt(-1))
			if err != nil {
				return usage, fmt.Errorf("usage %q: %w", ud.Name, err)
			}
			table, err := buildPriceTable(bd.Prices)
			if err != nil {
				return usage, fmt.Errorf("usage %q: %w", ud.Name, err)
			}
			tier.Blocks = append(tier.Blocks, catalog.TieredBlock{
				Unit:  bd.Unit,
				Size:  size,
				Max:   max,
				Price: table,
			})
		}
		usage.Tiers = append(usage.Tiers, tier)
	}
	return usage, nil
}

func buildPriceTable(prices []PriceDocument) (*catalog.InternationalPrice, error) {
	if len(prices) == 0 {
		return nil, nil
	}
	entries := make([]catalog.Price, 0, len(prices))
	for _, pd := range prices {
		amount, err := parseAmount(pd.Amount, decimal.Zero)
		if err != nil {
			return nil, fmt.Errorf("currency %q: %w", pd.Currency, err)
		}
		entries = append(entries, catalog.Price{Currency: pd.Currency, Value: amount})
	}
	table, err := catalog.NewInternationalPrice(entries...)
	if err != nil {
		return nil, errors.Join(ErrMalformedDocument, err)
	}
	return table, nil
}

func parseAmount(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Join(ErrInvalidAmount, err)
	}
	return amount, nil
}

func buildRuleCases(docs []RuleCaseDocument) []catalog.RuleCase {
	cases := make([]catalog.RuleCase, 0, len(docs))
	for _, rd := range docs {
		cases = append(cases, catalog.RuleCase{
			PhaseType:     catalog.PhaseType(rd.PhaseType),
			ProductName:   rd.Product,
			BillingPeriod: catalog.BillingPeriod(rd.BillingPeriod),
			PriceListName: rd.PriceList,
			Policy:        rd.Policy,
		})
	}
	return cases
}
