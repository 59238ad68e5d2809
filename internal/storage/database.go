// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Querier is satisfied by both *sql.DB and *sql.Tx so repository functions can
// run standalone or inside WithTransaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnectSchemaDB opens the SQLite database holding schemas and their columns
// and ensures the 'schemas' and 'schema_columns' tables exist.
func ConnectSchemaDB(cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile)
	customLog.Printf("Storage: Initializing schema database: %s", dbPath)

	if err := os.MkdirAll(cfg.DatabaseDir, 0o750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.DatabaseDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys are required for the schema -> columns cascade.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open schema db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open schema db: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping schema db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to schema db: %w", err)
	}
	customLog.Println("Storage: Schema database connection successful.")

	createSchemasTableSQL := `
	CREATE TABLE IF NOT EXISTS schemas (
		schema_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		column_separator TEXT NOT NULL DEFAULT ',' CHECK (column_separator IN (',', ';')),
		string_character TEXT NOT NULL DEFAULT '"' CHECK (string_character IN ('"', '''')),
		modified_date DATE NOT NULL DEFAULT CURRENT_DATE
	);`
	if _, err = db.Exec(createSchemasTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create schemas table: %v", err)
		return nil, fmt.Errorf("failed to ensure schemas table: %w", err)
	}
	customLog.Println("Storage: Schemas table ensured.")

	// One row per column. The kind column is the discriminant; only the payload
	// fields belonging to that kind are non-NULL.
	createColumnsTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_columns (
		column_id INTEGER PRIMARY KEY AUTOINCREMENT,
		schema_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		col_order INTEGER NOT NULL CHECK (col_order >= 0),
		kind TEXT NOT NULL,
		range_low INTEGER,
		range_high INTEGER,
		first_name TEXT,
		last_name TEXT,
		job_name TEXT,
		company_name TEXT,
		phone_number TEXT,
		UNIQUE (schema_id, name),
		UNIQUE (schema_id, col_order),
		FOREIGN KEY (schema_id) REFERENCES schemas(schema_id) ON DELETE CASCADE
	);`
	if _, err = db.Exec(createColumnsTableSQL); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to create schema_columns table: %v", err)
		return nil, fmt.Errorf("failed to ensure schema_columns table: %w", err)
	}
	customLog.Println("Storage: Schema columns table ensured.")

	return db, nil
}
