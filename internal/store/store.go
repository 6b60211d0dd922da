// Package store provides the embedded relational store and the generic
// paged CRUD engine every resource service is built on.
//
// The engine is written once against a small table contract (Table) and a
// set of row-mapping functions (Mapping), then instantiated per resource.
// It is not a general-purpose ORM: it only supports single-table entities
// keyed by an integer id (or a composite key for associations), partial
// column-level updates, and page/sort/filter against one table at a time.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The pool is safe for concurrent use;
// every engine operation runs in its own short transaction, and no
// transaction is ever held open across a network call.
type DB struct {
	conn *sql.DB
}

// Open opens a SQLite database at the given path and configures it.
// Use ":memory:" for an embedded throwaway database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	// A single connection keeps the pragmas below in effect for every
	// statement and makes ":memory:" behave as one database rather than
	// one per pooled connection. SQLite serializes writes anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the association table
	// relies on ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: enabling foreign keys: %w", err)
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Migrate runs schema statements. Services call this from their
// constructors with CREATE TABLE IF NOT EXISTS statements, so creation is
// idempotent and ordered by service wiring.
func (db *DB) Migrate(ddl ...string) error {
	for _, stmt := range ddl {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("store: running migration: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing transaction: %w", err)
	}
	return nil
}
