package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSnapshotExists   = errors.New("catalog version with this effective date already stored")
	ErrFailedToSave     = errors.New("failed to save catalog data")
	ErrFailedToLoad     = errors.New("failed to load catalog data")
	ErrFailedToConnect  = errors.New("failed to open database connection")
	ErrFailedToParseURL = errors.New("failed to parse database connection string")
	ErrFailedToMigrate  = errors.New("failed to apply catalog schema migrations")
)

// isDuplicateKeyError detects PostgreSQL unique constraint violations
// (SQLSTATE 23505), used to map duplicate effective dates to
// ErrSnapshotExists.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
