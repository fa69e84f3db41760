// Package override composes per-subscription plan variants and builds
// catalog snapshots programmatically.
//
// The Engine derives a distinctly named copy of an existing plan with one or
// more phase prices replaced, without touching the source plan or its
// snapshot: unaffected phases and price tables are shared by reference.
// Variants are deduplicated by (plan, descriptor) fingerprint so the same
// override combination always yields one physical plan object.
//
//	engine := override.NewEngine()
//	price := decimal.RequireFromString("199.95")
//	variant, err := engine.ApplyOverrides(plan, []override.PhaseOverride{{
//	    PhaseName:      "shotgun-monthly-evergreen",
//	    Currency:       "USD",
//	    RecurringPrice: &price,
//	}})
//
// The CatalogBuilder is the mutable counterpart of the read-only snapshot:
// it assembles a staging snapshot from flat SimplePlanDescriptor values (or
// adopted variants) and validates it before handing it over for
// publication.
package override
