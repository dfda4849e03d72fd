package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/saarthi-app/saarthi/internal/model"
)

// GetSettings reads the singleton settings record, returning defaults when
// none has been saved yet. Defaults are not persisted until the first save.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (*model.Settings, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, theme, currency, language, auto_backup, last_backup
		FROM settings WHERE id = ?`, model.SettingsID)

	var settings model.Settings
	var lastBackup sql.NullTime
	err := row.Scan(
		&settings.ID,
		&settings.Theme,
		&settings.Currency,
		&settings.Language,
		&settings.AutoBackup,
		&lastBackup,
	)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if lastBackup.Valid {
		t := lastBackup.Time
		settings.LastBackup = &t
	}

	return &settings, nil
}

// SaveSettings merges the partial update over the current settings and
// persists the result, analogous to a person update.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, update model.SettingsUpdate) (*model.Settings, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	merged := *current
	update.ApplyTo(&merged)
	merged.ID = model.SettingsID

	if err := validateSettings(&merged); err != nil {
		return nil, err
	}

	var lastBackup any
	if merged.LastBackup != nil {
		lastBackup = merged.LastBackup.UTC().Truncate(time.Millisecond)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, theme, currency, language, auto_backup, last_backup)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			currency = excluded.currency,
			language = excluded.language,
			auto_backup = excluded.auto_backup,
			last_backup = excluded.last_backup`,
		merged.ID, merged.Theme, merged.Currency, merged.Language, merged.AutoBackup, lastBackup)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", mapSQLiteError(err))
	}

	return &merged, nil
}
