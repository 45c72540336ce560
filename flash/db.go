package flash

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/camfs"

	_ "modernc.org/sqlite" // SQLite driver
)

// Database is an open flash image.
type Database struct {
	db     *sql.DB
	tables camfs.Tables
}

// Connect opens the flash image at dsn. Use ":memory:" for a throwaway image.
func Connect(ctx context.Context, dsn string, tables camfs.Tables) (*Database, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect flash: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect flash: %w", err)
	}

	// A single connection keeps ":memory:" images coherent and matches the
	// single reader/writer of a flash partition.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect flash: ping: %w", err)
	}

	return &Database{db: db, tables: tables}, nil
}

// Migrate creates the files table if it does not exist yet.
func (d *Database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the image schema matches the expected structure.
func (d *Database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// Store returns the file store backed by this image.
func (d *Database) Store() *Store {
	return &Store{db: d.db, tableName: d.tables.Files}
}

// Close closes the image.
func (d *Database) Close() error {
	return d.db.Close()
}
