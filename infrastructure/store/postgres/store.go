// ABOUTME: Postgres-backed publication store for deployments that share a database
// ABOUTME: Uses lib/pq with a bounded connection pool and $n placeholders

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"paperfeed-engine/infrastructure/store/sqlstore"
)

// Open connects to Postgres using a URL or key=value DSN and creates the schema
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	store := sqlstore.New(db, sqlstore.Dollar)
	if err := store.Ensure(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
