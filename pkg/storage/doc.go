// Package storage persists catalog documents and per-subscription override
// descriptors.
//
// Snapshots are stored as the raw YAML documents the loader parses, keyed
// by tenant and effective date; the engine's immutable object graph is
// always rebuilt from source rather than serialized. Override descriptors
// are stored per subscription so the same priced plan variant can be
// recomposed on any node.
//
// Three SnapshotStore implementations are provided: an in-memory store for
// tests and single-process use, a PostgreSQL store (pgx) with embedded
// goose migrations, and a read-through Redis cache that wraps either.
//
//	pool, err := storage.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := storage.Migrate(ctx, pool, slog.Default()); err != nil { ... }
//
//	store := storage.NewCachedSnapshotStore(storage.NewPostgresStore(pool), redisClient, cacheCfg)
//	vc, err := storage.NewCatalogSource(store).Load(ctx, tenantID)
package storage
