package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory SnapshotStore and OverrideStore for tests and
// single-process deployments. Stored records are deep-copied on the way in
// and out so callers cannot alias internal state.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID][]SnapshotDocument
	overrides map[uuid.UUID][]OverrideRecord // keyed by subscription ID
}

// NewMemoryStore returns an empty in-memory store implementing both
// SnapshotStore and OverrideStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[uuid.UUID][]SnapshotDocument),
		overrides: make(map[uuid.UUID][]OverrideRecord),
	}
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, doc SnapshotDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.snapshots[doc.TenantID] {
		if existing.EffectiveDate.Equal(doc.EffectiveDate) {
			return ErrSnapshotExists
		}
	}

	doc.Document = slices.Clone(doc.Document)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	docs := append(s.snapshots[doc.TenantID], doc)
	slices.SortStableFunc(docs, func(a, b SnapshotDocument) int {
		return a.EffectiveDate.Compare(b.EffectiveDate)
	})
	s.snapshots[doc.TenantID] = docs
	return nil
}

func (s *MemoryStore) ListSnapshots(ctx context.Context, tenantID uuid.UUID) ([]SnapshotDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]SnapshotDocument, 0, len(s.snapshots[tenantID]))
	for _, doc := range s.snapshots[tenantID] {
		doc.Document = slices.Clone(doc.Document)
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) SaveOverrides(ctx context.Context, rec OverrideRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Overrides = slices.Clone(rec.Overrides)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.overrides[rec.SubscriptionID] = append(s.overrides[rec.SubscriptionID], rec)
	return nil
}

func (s *MemoryStore) ListOverrides(ctx context.Context, tenantID, subscriptionID uuid.UUID) ([]OverrideRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []OverrideRecord
	for _, rec := range s.overrides[subscriptionID] {
		if rec.TenantID != tenantID {
			continue
		}
		rec.Overrides = slices.Clone(rec.Overrides)
		records = append(records, rec)
	}
	return records, nil
}
