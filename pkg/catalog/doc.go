// Package catalog implements a temporal configuration-resolution engine for
// a subscription-billing product catalog.
//
// A catalog describes products, plans, phases and price lists. Each edit of
// the catalog produces a new dated Snapshot; a VersionedCatalog holds the
// ordered snapshot sequence and resolves a logical plan reference to the
// exact (snapshot, plan) pair that applies at a given instant for a given
// subscription.
//
// The resolver guarantees grandfathering: a subscription created under an
// old snapshot keeps resolving to that snapshot's plan definition until a
// later definition explicitly becomes effective for existing subscriptions
// (Plan.EffectiveDateForExistingSubscriptions).
//
// Snapshots are immutable once published and safe for concurrent reads
// without locking. VersionedCatalog.Add publishes through an atomic swap of
// the whole sequence and refuses to publish a sequence that fails
// validation; validation problems are collected into ValidationErrors
// rather than reported one at a time.
//
// Basic usage:
//
//	vc := catalog.NewVersionedCatalog()
//	if err := vc.Add(snapshotJan); err != nil {
//	    // err is a catalog.ValidationErrors with every problem found
//	}
//	if err := vc.Add(snapshotJun); err != nil { ... }
//
//	res, err := vc.Resolve(catalog.PlanReference{PlanName: "shotgun-monthly"},
//	    asOfTime, subscriptionStartTime)
//	if err != nil { ... }
//	price, _ := res.Plan.FinalPhase.Recurring.Price.Value("USD")
//
// Snapshots are produced by the loader package (YAML catalog documents) or
// programmatically by the override package's CatalogBuilder.
package catalog
