package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CachedSnapshotStore is a read-through Redis cache in front of a
// SnapshotStore. Catalog documents change rarely and are read on every
// resolution path, so a short TTL keeps hot tenants off the database while
// bounding staleness; writes invalidate the tenant's cache entry.
type CachedSnapshotStore struct {
	store  SnapshotStore
	client *redis.Client
	ttl    time.Duration
}

// ConnectCache opens the Redis client for the document cache and verifies
// it with a ping.
func ConnectCache(ctx context.Context, cfg CacheConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(ErrFailedToConnect, err)
	}
	return client, nil
}

// NewCachedSnapshotStore wraps store with a Redis document cache.
func NewCachedSnapshotStore(store SnapshotStore, client *redis.Client, cfg CacheConfig) *CachedSnapshotStore {
	if store == nil {
		panic("storage: snapshot store is required")
	}
	if client == nil {
		panic("storage: redis client is required")
	}
	return &CachedSnapshotStore{store: store, client: client, ttl: cfg.TTL}
}

func cacheKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("catalogkit:snapshots:%s", tenantID)
}

// cachedDocument is the Redis representation of a SnapshotDocument.
type cachedDocument struct {
	EffectiveDate time.Time `json:"effective_date"`
	Document      []byte    `json:"document"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *CachedSnapshotStore) SaveSnapshot(ctx context.Context, doc SnapshotDocument) error {
	if err := s.store.SaveSnapshot(ctx, doc); err != nil {
		return err
	}
	// Invalidation failure is not a save failure, the entry expires anyway.
	_ = s.client.Del(ctx, cacheKey(doc.TenantID)).Err()
	return nil
}

func (s *CachedSnapshotStore) ListSnapshots(ctx context.Context, tenantID uuid.UUID) ([]SnapshotDocument, error) {
	key := cacheKey(tenantID)

	payload, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []cachedDocument
		if err := json.Unmarshal(payload, &cached); err == nil {
			docs := make([]SnapshotDocument, 0, len(cached))
			for _, c := range cached {
				docs = append(docs, SnapshotDocument{
					TenantID:      tenantID,
					EffectiveDate: c.EffectiveDate,
					Document:      c.Document,
					CreatedAt:     c.CreatedAt,
				})
			}
			return docs, nil
		}
		// Corrupt entry: fall through to the store and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		return nil, errors.Join(ErrFailedToLoad, err)
	}

	docs, err := s.store.ListSnapshots(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedDocument, 0, len(docs))
	for _, doc := range docs {
		cached = append(cached, cachedDocument{
			EffectiveDate: doc.EffectiveDate,
			Document:      doc.Document,
			CreatedAt:     doc.CreatedAt,
		})
	}
	if payload, err := json.Marshal(cached); err == nil {
		// Best effort: a failed cache write only costs the next reader a
		// database round trip.
		_ = s.client.Set(ctx, key, payload, s.ttl).Err()
	}
	return docs, nil
}
