package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/saarthi-app/saarthi/internal/cli"
	"github.com/saarthi-app/saarthi/internal/config"
	"github.com/saarthi-app/saarthi/internal/service"
	"github.com/saarthi-app/saarthi/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// confirm asks the user to confirm a destructive operation. The core never
// prompts; every confirmation gate lives here in the command layer.
func confirm(prompt string) bool {
	fmt.Print(cli.PromptStyle.Render(prompt + " [y/N] "))

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// configuredCurrency reads the display currency from settings, falling
// back to the default when storage is unavailable.
func configuredCurrency(ctx context.Context, store service.Storage) string {
	settings, err := store.GetSettings(ctx)
	if err != nil || settings.Currency == "" {
		return money.INR
	}
	return settings.Currency
}

// formatMoney renders an amount in the configured display currency.
// Display only; no conversion happens anywhere.
func formatMoney(amount float64, currency string) string {
	return money.NewFromFloat(amount, currency).Display()
}
