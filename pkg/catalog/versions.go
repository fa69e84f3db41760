package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// PlanReference identifies a plan logically, either by exact name or by the
// (product, billing period, price list) triple. A non-empty PlanName takes
// precedence.
type PlanReference struct {
	PlanName      string
	ProductName   string
	BillingPeriod BillingPeriod
	PriceListName string // empty resolves against the default list
}

func (r PlanReference) String() string {
	if r.PlanName != "" {
		return r.PlanName
	}
	return fmt.Sprintf("%s/%s/%s", r.ProductName, r.BillingPeriod, r.PriceListName)
}

// Resolution is the outcome of a versioned lookup: the snapshot that won the
// scan and the plan definition it carries.
type Resolution struct {
	Snapshot *Snapshot
	Plan     *Plan
}

// EffectiveDate returns the winning snapshot's effective date.
func (r *Resolution) EffectiveDate() time.Time {
	return r.Snapshot.EffectiveDate
}

// VersionedCatalog is a time-ordered sequence of snapshots sharing one
// catalog name. Reads are lock-free against an atomically published
// sequence; Add serializes writers and publishes a fresh sorted copy, so
// concurrent readers always observe a fully consistent version set.
type VersionedCatalog struct {
	mu      sync.Mutex // serializes Add
	current atomic.Pointer[versionSet]
}

// versionSet is one immutable published state: snapshots ascending by
// effective date.
type versionSet struct {
	snapshots []*Snapshot
}

// NewVersionedCatalog returns a catalog with no versions. Snapshots are
// added with Add.
func NewVersionedCatalog() *VersionedCatalog {
	vc := &VersionedCatalog{}
	vc.current.Store(&versionSet{})
	return vc
}

// Add appends a snapshot and publishes the re-sorted sequence via atomic
// swap. The candidate sequence is validated first (cross-version checks
// included); a non-empty error list aborts the publish and is returned as
// the error, carrying every problem found.
func (vc *VersionedCatalog) Add(snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New("catalog: nil snapshot")
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()

	old := vc.current.Load()
	next := make([]*Snapshot, 0, len(old.snapshots)+1)
	next = append(next, old.snapshots...)
	next = append(next, snapshot)
	slices.SortStableFunc(next, func(a, b *Snapshot) int {
		return a.EffectiveDate.Compare(b.EffectiveDate)
	})

	if verrs := validateVersionSet(next); len(verrs) > 0 {
		return verrs
	}

	vc.current.Store(&versionSet{snapshots: next})
	return nil
}

// Versions returns the published snapshots in ascending effective-date
// order. The slice is a copy; the snapshots themselves are shared and
// immutable.
func (vc *VersionedCatalog) Versions() []*Snapshot {
	return slices.Clone(vc.current.Load().snapshots)
}

// Latest returns the most recent snapshot, or nil when empty.
func (vc *VersionedCatalog) Latest() *Snapshot {
	set := vc.current.Load()
	if len(set.snapshots) == 0 {
		return nil
	}
	return set.snapshots[len(set.snapshots)-1]
}

// EffectiveThen returns the snapshot in force at the given instant.
func (vc *VersionedCatalog) EffectiveThen(asOf time.Time) (*Snapshot, error) {
	set := vc.current.Load()
	for i := len(set.snapshots) - 1; i >= 0; i-- {
		if !set.snapshots[i].EffectiveDate.After(asOf) {
			return set.snapshots[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCatalogForDate, asOf.Format(time.RFC3339))
}

// Resolve maps a plan reference to the concrete (snapshot, plan) pair that
// applies at asOf for a subscription started at subscriptionStart.
//
// Snapshots effective after asOf are ignored. The remaining versions are
// scanned newest first; a version whose plan definition does not yet apply
// to a pre-existing subscription (a future EffectiveDateForExistingSubscriptions)
// is skipped in favor of an older, still-valid definition. A reference that
// simply does not exist in a version (retired plan, product or price list)
// moves the scan to the next older version; ambiguous or malformed
// references fail immediately.
func (vc *VersionedCatalog) Resolve(ref PlanReference, asOf, subscriptionStart time.Time) (*Resolution, error) {
	if ref.PlanName == "" && ref.ProductName == "" {
		return nil, ErrEmptyPlanReference
	}

	set := vc.current.Load()

	eligible := 0
	for _, s := range set.snapshots {
		if s.EffectiveDate.After(asOf) {
			break
		}
		eligible++
	}
	if eligible == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogForDate, asOf.Format(time.RFC3339))
	}

	for i := eligible - 1; i >= 0; i-- {
		snapshot := set.snapshots[i]
		plan, err := lookupPlan(snapshot, ref)
		if err != nil {
			return nil, err // ambiguous or malformed, never masked by older versions
		}
		if plan == nil {
			continue // not present in this version
		}
		if plan.EffectiveFor(snapshot.EffectiveDate, asOf, subscriptionStart) {
			return &Resolution{Snapshot: snapshot, Plan: plan}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s (asOf %s, subscription started %s)",
		ErrPlanNotFound, ref, asOf.Format(time.RFC3339), subscriptionStart.Format(time.RFC3339))
}

// ResolveCurrent is the plain form of Resolve with both instants set to now:
// a new subscription against the most recent snapshot.
func (vc *VersionedCatalog) ResolveCurrent(ref PlanReference) (*Resolution, error) {
	now := time.Now().UTC()
	return vc.Resolve(ref, now, now)
}

// lookupPlan resolves ref against a single snapshot. A nil plan with nil
// error means the reference does not exist in this version and the scan may
// continue.
func lookupPlan(snapshot *Snapshot, ref PlanReference) (*Plan, error) {
	if ref.PlanName != "" {
		plan, ok := snapshot.Plans.Get(ref.PlanName)
		if !ok {
			return nil, nil
		}
		return plan, nil
	}

	if _, ok := snapshot.Products.Get(ref.ProductName); !ok {
		return nil, nil
	}
	plan, err := snapshot.ResolvePriceListPlan(ref.ProductName, ref.BillingPeriod, ref.PriceListName)
	if errors.Is(err, ErrPriceListNotFound) {
		return nil, nil // list retired in this version, keep scanning
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}
