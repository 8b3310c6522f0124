package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version  int
	Name     string
	Postgres []string
	SQLite   []string
}

func (m Migration) statements(d Dialect) []string {
	if d == Postgres {
		return m.Postgres
	}
	return m.SQLite
}

const createSchemaVersionPostgres = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

const createSchemaVersionSQLite = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		Version:  1,
		Name:     "create_schema_version_table",
		Postgres: []string{createSchemaVersionPostgres},
		SQLite:   []string{createSchemaVersionSQLite},
	},
	{
		Version: 2,
		Name:    "create_analyses_table",
		Postgres: []string{`
			CREATE TABLE IF NOT EXISTS analyses (
				id TEXT PRIMARY KEY,
				text TEXT NOT NULL,
				format TEXT NOT NULL DEFAULT 'plain',
				target_level TEXT NOT NULL DEFAULT 'high-school',
				status TEXT NOT NULL DEFAULT 'pending',
				grade_level INTEGER NOT NULL DEFAULT 0,
				reading_level TEXT NOT NULL DEFAULT '',
				feedback JSONB,
				last_error TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
		SQLite: []string{`
			CREATE TABLE IF NOT EXISTS analyses (
				id TEXT PRIMARY KEY,
				text TEXT NOT NULL,
				format TEXT NOT NULL DEFAULT 'plain',
				target_level TEXT NOT NULL DEFAULT 'high-school',
				status TEXT NOT NULL DEFAULT 'pending',
				grade_level INTEGER NOT NULL DEFAULT 0,
				reading_level TEXT NOT NULL DEFAULT '',
				feedback TEXT,
				last_error TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Version: 3,
		Name:    "create_analyses_indexes",
		Postgres: []string{
			`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_reading_level ON analyses(reading_level)`,
		},
		SQLite: []string{
			`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status)`,
			`CREATE INDEX IF NOT EXISTS idx_analyses_reading_level ON analyses(reading_level)`,
		},
	},
}

// Migrate runs all pending migrations
func (db *DB) Migrate(ctx context.Context) error {
	// Ensure schema_version table exists
	for _, stmt := range migrations[0].statements(db.dialect) {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
	}

	currentVersion, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("checking schema version", "dialect", db.dialect, "current_version", currentVersion)

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("applying migration", "version", migration.Version, "name", migration.Name)
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		for _, stmt := range migration.statements(db.dialect) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to run migration %d (%s): %w", migration.Version, migration.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, db.rebind("INSERT INTO schema_version (version) VALUES (?)"), migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	slog.Info("migrations complete", "version", migrations[len(migrations)-1].Version)
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}
