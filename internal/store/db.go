package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rshade/holocron/internal/logging"
)

const (
	driverName = "sqlite"
	// busyTimeoutMillis lets a second holocron process wait for the write lock
	// instead of failing immediately.
	busyTimeoutMillis = 5000
)

// Open opens (creating if needed) the SQLite database at path and initializes
// the schema. The parent directory is created with 0750.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}

	if err := Init(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Init creates each table that does not exist yet. The attribute dictionary is
// seeded in the same transaction that creates its table, so an existing
// dictionary is never touched. Init never drops or alters existing tables.
func Init(ctx context.Context, db *sql.DB) error {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "store")

	exists, err := tableExists(ctx, db, AttributesTable)
	if err != nil {
		return err
	}
	if !exists {
		if err := createAttributes(ctx, db); err != nil {
			return err
		}
		log.Debug().Str("table", AttributesTable).Int("rows", len(defaultAttributes)).Msg("created and seeded table")
	}

	exists, err = tableExists(ctx, db, CacheTable)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := db.ExecContext(ctx, cacheDDL); err != nil {
			return fmt.Errorf("creating %s: %w", CacheTable, err)
		}
		log.Debug().Str("table", CacheTable).Msg("created table")
	}

	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT count(name) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return n == 1, nil
}

func createAttributes(ctx context.Context, db *sql.DB) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s seed: %w", AttributesTable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, attributesDDL); err != nil {
		return fmt.Errorf("creating %s: %w", AttributesTable, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dico_swapi_attributes (api_key, api_attribute, label, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing %s seed: %w", AttributesTable, err)
	}
	defer stmt.Close()

	for i, a := range defaultAttributes {
		if _, err = stmt.ExecContext(ctx, a.kind, a.name, a.label, i); err != nil {
			return fmt.Errorf("seeding %s.%s: %w", a.kind, a.name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s seed: %w", AttributesTable, err)
	}
	return nil
}
