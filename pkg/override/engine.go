package override

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
)

// Engine composes per-subscription plan variants with custom prices.
// Composition is a pure function over immutable inputs: the source plan and
// its snapshot are never touched, unaffected phases and price tables are
// shared by reference, and only the targeted price entries are replaced in
// cloned structures.
type Engine struct {
	cache *variantCache
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithVariantCacheSize bounds the variant deduplication cache.
func WithVariantCacheSize(capacity int) EngineOption {
	return func(e *Engine) {
		e.cache = newVariantCache(capacity)
	}
}

const defaultVariantCacheSize = 1024

// NewEngine returns an override engine with a default-sized variant cache.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = newVariantCache(defaultVariantCacheSize)
	}
	return e
}

// ApplyOverrides builds a distinctly named variant of plan whose targeted
// phase prices are replaced per the descriptors. The same plan and
// descriptor combination always yields the same physical variant (cached by
// fingerprint). The source plan is never modified.
func (e *Engine) ApplyOverrides(plan *catalog.Plan, overrides []PhaseOverride) (*catalog.Plan, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: nil source plan", ErrInvalidOverride)
	}
	if len(overrides) == 0 {
		return nil, fmt.Errorf("%w: no descriptors given", ErrInvalidOverride)
	}

	key := fingerprint(plan, overrides)
	if variant, ok := e.cache.get(key); ok {
		return variant, nil
	}

	byType := make(map[catalog.PhaseType]PhaseOverride, len(overrides))
	for _, o := range overrides {
		if err := validateDescriptor(plan, o); err != nil {
			return nil, err
		}
		_, phaseType, _ := catalog.SplitPhaseName(o.PhaseName)
		if _, dup := byType[phaseType]; dup {
			return nil, fmt.Errorf("%w: two descriptors target phase %q", ErrInvalidOverride, o.PhaseName)
		}
		byType[phaseType] = o
	}

	variant := &catalog.Plan{
		Name:                                  variantName(plan.Name),
		ProductName:                           plan.ProductName,
		PriceListName:                         plan.PriceListName,
		PlansAllowedInBundle:                  plan.PlansAllowedInBundle,
		EffectiveDateForExistingSubscriptions: plan.EffectiveDateForExistingSubscriptions,
	}
	for _, phase := range plan.InitialPhases {
		variant.InitialPhases = append(variant.InitialPhases, overridePhase(phase, byType))
	}
	variant.FinalPhase = overridePhase(plan.FinalPhase, byType)

	e.cache.put(key, variant)
	return variant, nil
}

// validateDescriptor distinguishes incomplete input (ErrInvalidOverride)
// from input that contradicts the plan's actual shape
// (ErrFailedOverrideValidation).
func validateDescriptor(plan *catalog.Plan, o PhaseOverride) error {
	if o.Currency == "" {
		return fmt.Errorf("%w: descriptor for %q has no currency", ErrInvalidOverride, o.PhaseName)
	}
	if !o.hasReplacement() {
		return fmt.Errorf("%w: descriptor for %q replaces nothing", ErrInvalidOverride, o.PhaseName)
	}
	if o.FixedPrice != nil && o.FixedPrice.IsNegative() {
		return fmt.Errorf("%w: negative fixed price for %q", ErrInvalidOverride, o.PhaseName)
	}
	if o.RecurringPrice != nil && o.RecurringPrice.IsNegative() {
		return fmt.Errorf("%w: negative recurring price for %q", ErrInvalidOverride, o.PhaseName)
	}

	planName, phaseType, err := catalog.SplitPhaseName(o.PhaseName)
	if err != nil {
		return fmt.Errorf("%w: %q is not a qualified phase name", ErrInvalidOverride, o.PhaseName)
	}
	if planName != plan.Name {
		return fmt.Errorf("%w: phase %q does not belong to plan %q", ErrFailedOverrideValidation, o.PhaseName, plan.Name)
	}
	phase, err := plan.Phase(phaseType)
	if err != nil {
		return fmt.Errorf("%w: plan %q has no %s phase", ErrFailedOverrideValidation, plan.Name, phaseType)
	}

	if o.RecurringPrice != nil && phase.Recurring == nil {
		return fmt.Errorf("%w: phase %q has no recurring component", ErrFailedOverrideValidation, o.PhaseName)
	}
	for _, u := range o.UsagePrices {
		usage := findUsage(phase, u.UsageName)
		if usage == nil {
			return fmt.Errorf("%w: phase %q has no usage component %q", ErrFailedOverrideValidation, o.PhaseName, u.UsageName)
		}
		if got, want := len(u.BlockPrices), blockCount(usage); got != want {
			return fmt.Errorf("%w: usage %q has %d blocks, descriptor supplies %d prices",
				ErrFailedOverrideValidation, u.UsageName, want, got)
		}
		for _, p := range u.BlockPrices {
			if p.IsNegative() {
				return fmt.Errorf("%w: negative block price for usage %q", ErrInvalidOverride, u.UsageName)
			}
		}
	}
	return nil
}

// overridePhase returns the phase unchanged (shared) when no descriptor
// targets it, or a clone with the targeted price entries replaced.
func overridePhase(phase *catalog.PlanPhase, byType map[catalog.PhaseType]PhaseOverride) *catalog.PlanPhase {
	o, ok := byType[phase.Type]
	if !ok {
		return phase
	}

	clone := &catalog.PlanPhase{
		Type:      phase.Type,
		Duration:  phase.Duration,
		Fixed:     phase.Fixed,
		Recurring: phase.Recurring,
		Usages:    phase.Usages,
	}
	if o.FixedPrice != nil {
		clone.Fixed = phase.Fixed.WithPrice(o.Currency, *o.FixedPrice)
	}
	if o.RecurringPrice != nil {
		clone.Recurring = &catalog.Recurring{
			BillingPeriod: phase.Recurring.BillingPeriod,
			Price:         phase.Recurring.Price.WithPrice(o.Currency, *o.RecurringPrice),
		}
	}
	if len(o.UsagePrices) > 0 {
		clone.Usages = overrideUsages(phase.Usages, o)
	}
	return clone
}

func overrideUsages(usages []catalog.Usage, o PhaseOverride) []catalog.Usage {
	overridden := make([]catalog.Usage, len(usages))
	copy(overridden, usages)
	for _, uo := range o.UsagePrices {
		for i, usage := range overridden {
			if usage.Name != uo.UsageName {
				continue
			}
			overridden[i] = overrideBlocks(usage, uo, o.Currency)
		}
	}
	return overridden
}

func overrideBlocks(usage catalog.Usage, uo UsagePriceOverride, currency string) catalog.Usage {
	clone := catalog.Usage{
		Name:          usage.Name,
		BillingPeriod: usage.BillingPeriod,
		Tiers:         make([]catalog.Tier, len(usage.Tiers)),
	}
	next := 0
	for t, tier := range usage.Tiers {
		blocks := make([]catalog.TieredBlock, len(tier.Blocks))
		for b, block := range tier.Blocks {
			block.Price = block.Price.WithPrice(currency, uo.BlockPrices[next])
			blocks[b] = block
			next++
		}
		clone.Tiers[t] = catalog.Tier{Blocks: blocks}
	}
	return clone
}

func findUsage(phase *catalog.PlanPhase, name string) *catalog.Usage {
	for i := range phase.Usages {
		if phase.Usages[i].Name == name {
			return &phase.Usages[i]
		}
	}
	return nil
}

func blockCount(usage *catalog.Usage) int {
	n := 0
	for _, tier := range usage.Tiers {
		n += len(tier.Blocks)
	}
	return n
}

// variantName synthesizes a distinct name for an override variant.
func variantName(planName string) string {
	return fmt.Sprintf("%s-override-%s", planName, uuid.NewString()[:8])
}
