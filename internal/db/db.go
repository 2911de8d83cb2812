// Package db owns the local sqlite database: connection, schema and
// migrations, and demo data.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Open opens the sqlite database at path, creating its directory, enabling
// foreign keys and applying pending migrations. ":memory:" opens a private
// in-memory database.
func Open(path string, log *zap.Logger) (*sql.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		database.SetMaxOpenConns(1)
	}

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := RunMigrations(database, log); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return database, nil
}
