package model

import "time"

// SettingsID is the fixed key of the singleton settings record.
const SettingsID = "app-settings"

// Settings is the single process-wide settings record. It is created
// lazily with defaults on first read and updated by partial merge.
type Settings struct {
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	ID         string     `json:"id"`
	Theme      string     `json:"theme"`
	Currency   string     `json:"currency"`
	Language   string     `json:"language"`
	AutoBackup bool       `json:"autoBackup"`
}

// DefaultSettings returns the settings used before any have been saved.
func DefaultSettings() *Settings {
	return &Settings{
		ID:         SettingsID,
		Theme:      "system",
		Currency:   "INR",
		Language:   "en",
		AutoBackup: true,
	}
}

// SettingsUpdate carries a partial settings update; nil fields are left
// unchanged.
type SettingsUpdate struct {
	Theme      *string
	Currency   *string
	Language   *string
	AutoBackup *bool
	LastBackup *time.Time
}

// ApplyTo merges the set fields over the settings.
func (u *SettingsUpdate) ApplyTo(s *Settings) {
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	if u.Currency != nil {
		s.Currency = *u.Currency
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
	if u.AutoBackup != nil {
		s.AutoBackup = *u.AutoBackup
	}
	if u.LastBackup != nil {
		s.LastBackup = u.LastBackup
	}
}
