package db

import (
	"context"
	"database/sql"

	libdb "fleetdash/backend/libs/db"
)

// NewPostgres connects to Postgres using the shared pool helper.
func NewPostgres(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	return libdb.NewPostgresDB(ctx, dsn, libdb.PoolOptions{MaxOpenConns: maxOpenConns})
}
