package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/catalogkit/pkg/catalog"
	"github.com/dmitrymomot/catalogkit/pkg/loader"
)

// CatalogSource assembles a tenant's VersionedCatalog from its stored
// documents: each document is parsed, validated and published in effective
// date order.
type CatalogSource struct {
	store SnapshotStore
}

// NewCatalogSource returns a source reading from the given store (plain or
// cached).
func NewCatalogSource(store SnapshotStore) *CatalogSource {
	if store == nil {
		panic("storage: snapshot store is required")
	}
	return &CatalogSource{store: store}
}

// Load builds the versioned catalog for a tenant. A tenant with no stored
// documents yields an empty catalog; lookups against it fail with
// catalog.ErrNoCatalogForDate.
func (s *CatalogSource) Load(ctx context.Context, tenantID uuid.UUID) (*catalog.VersionedCatalog, error) {
	docs, err := s.store.ListSnapshots(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	vc := catalog.NewVersionedCatalog()
	for _, doc := range docs {
		snapshot, err := loader.Parse(doc.Document)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoad,
				fmt.Errorf("tenant %s version %s: %w", tenantID, doc.EffectiveDate.Format("2006-01-02"), err))
		}
		if err := vc.Add(snapshot); err != nil {
			return nil, errors.Join(ErrFailedToLoad,
				fmt.Errorf("tenant %s version %s: %w", tenantID, doc.EffectiveDate.Format("2006-01-02"), err))
		}
	}
	return vc, nil
}
