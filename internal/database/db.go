// Package database persists practice sessions and key/value settings in sqlite.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/akyairhashvil/SPT/internal/util"
)

// Database wraps the sqlite handle used by the store methods.
type Database struct {
	DB     *sql.DB
	dbFile string
	log    zerolog.Logger
}

// Open opens (creating if needed) the sqlite file at path and ensures the schema.
func Open(ctx context.Context, path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	d := &Database{DB: db, dbFile: path, log: util.Logger("database")}
	if err := d.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Path returns the file the database was opened from.
func (d *Database) Path() string {
	return d.dbFile
}

// Close releases the underlying handle.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

func (d *Database) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			speech_type TEXT NOT NULL,
			topic TEXT,
			planned_seconds INTEGER NOT NULL DEFAULT 0,
			elapsed_seconds INTEGER NOT NULL DEFAULT 0,
			custom INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT 'in_progress',
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}
	for _, query := range queries {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
