package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/catalogkit/pkg/override"
)

// PostgresStore persists catalog documents and override descriptors in
// PostgreSQL. It implements SnapshotStore and OverrideStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("storage: connection pool is required")
	}
	return &PostgresStore{pool: pool}
}

// Connect establishes a PostgreSQL connection pool with retry, verifying
// the connection with a ping before returning. Retries back off linearly to
// ride out transient startup races with the database container.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}
		return pool, nil
	}
	return nil, ErrFailedToConnect
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, doc SnapshotDocument) error {
	const q = `
		INSERT INTO catalog_snapshots (tenant_id, effective_date, document)
		VALUES ($1, $2, $3)`

	if _, err := s.pool.Exec(ctx, q, doc.TenantID, doc.EffectiveDate.UTC(), doc.Document); err != nil {
		if isDuplicateKeyError(err) {
			return ErrSnapshotExists
		}
		return errors.Join(ErrFailedToSave, err)
	}
	return nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, tenantID uuid.UUID) ([]SnapshotDocument, error) {
	const q = `
		SELECT effective_date, document, created_at
		FROM catalog_snapshots
		WHERE tenant_id = $1
		ORDER BY effective_date ASC`

	rows, err := s.pool.Query(ctx, q, tenantID)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}
	defer rows.Close()

	var docs []SnapshotDocument
	for rows.Next() {
		doc := SnapshotDocument{TenantID: tenantID}
		if err := rows.Scan(&doc.EffectiveDate, &doc.Document, &doc.CreatedAt); err != nil {
			return nil, errors.Join(ErrFailedToLoad, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}
	return docs, nil
}

func (s *PostgresStore) SaveOverrides(ctx context.Context, rec OverrideRecord) error {
	descriptors, err := json.Marshal(rec.Overrides)
	if err != nil {
		return errors.Join(ErrFailedToSave, err)
	}

	const q = `
		INSERT INTO plan_overrides (tenant_id, subscription_id, plan_name, descriptors)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, q, rec.TenantID, rec.SubscriptionID, rec.PlanName, descriptors); err != nil {
		return errors.Join(ErrFailedToSave, err)
	}
	return nil
}

func (s *PostgresStore) ListOverrides(ctx context.Context, tenantID, subscriptionID uuid.UUID) ([]OverrideRecord, error) {
	const q = `
		SELECT plan_name, descriptors, created_at
		FROM plan_overrides
		WHERE tenant_id = $1 AND subscription_id = $2
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, q, tenantID, subscriptionID)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}
	defer rows.Close()

	var records []OverrideRecord
	for rows.Next() {
		rec := OverrideRecord{TenantID: tenantID, SubscriptionID: subscriptionID}
		var descriptors []byte
		if err := rows.Scan(&rec.PlanName, &descriptors, &rec.CreatedAt); err != nil {
			return nil, errors.Join(ErrFailedToLoad, err)
		}
		if err := json.Unmarshal(descriptors, &rec.Overrides); err != nil {
			return nil, errors.Join(ErrFailedToLoad, err)
		}
		if rec.Overrides == nil {
			rec.Overrides = []override.PhaseOverride{}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToLoad, err)
	}
	return records, nil
}
