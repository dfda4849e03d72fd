package storage

import (
	"context"
	"testing"
	"time"

	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsReturnsDefaultsBeforeFirstSave(t *testing.T) {
	store := newTestStorage(t)

	settings, err := store.GetSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.SettingsID, settings.ID)
	assert.Equal(t, "system", settings.Theme)
	assert.Equal(t, "INR", settings.Currency)
	assert.Equal(t, "en", settings.Language)
	assert.True(t, settings.AutoBackup)
	assert.Nil(t, settings.LastBackup)
}

func TestSaveSettingsMergesPartialUpdate(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	theme := "dark"
	_, err := store.SaveSettings(ctx, model.SettingsUpdate{Theme: &theme})
	require.NoError(t, err)

	currency := "USD"
	saved, err := store.SaveSettings(ctx, model.SettingsUpdate{Currency: &currency})
	require.NoError(t, err)

	// Earlier save survives the later partial update.
	assert.Equal(t, "dark", saved.Theme)
	assert.Equal(t, "USD", saved.Currency)

	reloaded, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", reloaded.Theme)
	assert.Equal(t, "USD", reloaded.Currency)
}

func TestSaveSettingsRecordsLastBackup(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	backupTime := time.Date(2025, 8, 15, 12, 30, 0, 0, time.UTC)
	_, err := store.SaveSettings(ctx, model.SettingsUpdate{LastBackup: &backupTime})
	require.NoError(t, err)

	reloaded, err := store.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastBackup)
	assert.True(t, reloaded.LastBackup.Equal(backupTime))
}

func TestSaveSettingsRejectsInvalidTheme(t *testing.T) {
	store := newTestStorage(t)

	theme := "neon"
	_, err := store.SaveSettings(context.Background(), model.SettingsUpdate{Theme: &theme})
	assert.ErrorIs(t, err, ErrInvalidTheme)
}
