package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS people (
					id TEXT PRIMARY KEY,
					no INTEGER UNIQUE NOT NULL,
					name TEXT NOT NULL,
					state TEXT NOT NULL,
					salary REAL NOT NULL DEFAULT 0,
					vehicle_loan REAL NOT NULL DEFAULT 0,
					vehicle_emi REAL NOT NULL DEFAULT 0,
					home_loan REAL NOT NULL DEFAULT 0,
					home_emi REAL NOT NULL DEFAULT 0,
					personal_loan REAL NOT NULL DEFAULT 0,
					personal_loan_emi REAL NOT NULL DEFAULT 0,
					education_loan REAL NOT NULL DEFAULT 0,
					education_loan_emi REAL NOT NULL DEFAULT 0,
					gold_loan REAL NOT NULL DEFAULT 0,
					gold_loan_emi REAL NOT NULL DEFAULT 0,
					other_loans REAL NOT NULL DEFAULT 0,
					other_emis_online REAL NOT NULL DEFAULT 0,
					other_emis_offline REAL NOT NULL DEFAULT 0,
					investment_stock_market REAL NOT NULL DEFAULT 0,
					investment_mutual_fund REAL NOT NULL DEFAULT 0,
					investment_fixed_deposits REAL NOT NULL DEFAULT 0,
					saving REAL NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					sync_status TEXT NOT NULL DEFAULT 'pending'
				)`,
				`CREATE INDEX idx_people_name ON people(name)`,
				`CREATE INDEX idx_people_state ON people(state)`,
				`CREATE INDEX idx_people_sync_status ON people(sync_status)`,

				`CREATE TABLE IF NOT EXISTS settings (
					id TEXT PRIMARY KEY,
					theme TEXT NOT NULL DEFAULT 'system',
					currency TEXT NOT NULL DEFAULT 'INR',
					language TEXT NOT NULL DEFAULT 'en',
					auto_backup BOOLEAN NOT NULL DEFAULT 1,
					last_backup DATETIME
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add CIBIL score document attachment",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE people ADD COLUMN cibil_score_image TEXT`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add land, chitti, and AGIF loan categories and gold EMI investment",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE people ADD COLUMN land_loan REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN land_loan_emi REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN chitti REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN chitti_emi REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN agif_loan REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN agif_loan_emi REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE people ADD COLUMN investment_gold_emi REAL NOT NULL DEFAULT 0`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the current schema version of the open database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
