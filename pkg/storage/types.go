package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/catalogkit/pkg/override"
)

// SnapshotDocument is one stored catalog version for a tenant: the raw YAML
// source the loader parses, keyed by tenant and effective date.
type SnapshotDocument struct {
	TenantID      uuid.UUID
	EffectiveDate time.Time
	Document      []byte
	CreatedAt     time.Time
}

// OverrideRecord stores the override descriptors applied to one
// subscription's plan, so the same priced variant can be recomposed on any
// node.
type OverrideRecord struct {
	TenantID       uuid.UUID
	SubscriptionID uuid.UUID
	PlanName       string
	Overrides      []override.PhaseOverride
	CreatedAt      time.Time
}

// SnapshotStore persists the catalog versions belonging to a tenant.
type SnapshotStore interface {
	// SaveSnapshot stores a catalog document. Returns ErrSnapshotExists
	// when the tenant already has a version with the same effective date.
	SaveSnapshot(ctx context.Context, doc SnapshotDocument) error

	// ListSnapshots returns a tenant's documents ascending by effective
	// date. An empty slice means the tenant has no catalog yet.
	ListSnapshots(ctx context.Context, tenantID uuid.UUID) ([]SnapshotDocument, error)
}

// OverrideStore persists per-subscription override descriptors.
type OverrideStore interface {
	// SaveOverrides stores the descriptors for a subscription's plan.
	SaveOverrides(ctx context.Context, rec OverrideRecord) error

	// ListOverrides returns every override record of a subscription.
	ListOverrides(ctx context.Context, tenantID, subscriptionID uuid.UUID) ([]OverrideRecord, error)
}
