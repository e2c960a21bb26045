// ABOUTME: SQLite-backed publication store for single-machine deployments
// ABOUTME: Opens the database file, applies the schema and returns a shared sqlstore.Store

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"paperfeed-engine/infrastructure/store/sqlstore"
)

// Open connects to the SQLite database at dsn and creates the schema
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if dsn == "" {
		dsn = "paperfeed.db"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Each connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	store := sqlstore.New(db, sqlstore.QuestionMark)
	if err := store.Ensure(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
