package main

import (
	"fmt"

	"github.com/saarthi-app/saarthi/internal/cli"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change application settings",
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get settings: %w", err)
			}

			fmt.Printf("Theme:       %s\n", settings.Theme)
			fmt.Printf("Currency:    %s\n", settings.Currency)
			fmt.Printf("Language:    %s\n", settings.Language)
			fmt.Printf("Auto backup: %t\n", settings.AutoBackup)
			if settings.LastBackup != nil {
				fmt.Printf("Last backup: %s\n", settings.LastBackup.Format("2006-01-02 15:04:05 MST"))
			} else {
				fmt.Println(cli.SubtleStyle.Render("Last backup: never"))
			}
			return nil
		},
	}
}

func setSettingsCmd() *cobra.Command {
	var (
		theme      string
		currency   string
		language   string
		autoBackup bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Long:  `Update one or more settings. Unspecified settings are left unchanged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var update model.SettingsUpdate
			if cmd.Flags().Changed("theme") {
				update.Theme = &theme
			}
			if cmd.Flags().Changed("currency") {
				update.Currency = &currency
			}
			if cmd.Flags().Changed("language") {
				update.Language = &language
			}
			if cmd.Flags().Changed("auto-backup") {
				update.AutoBackup = &autoBackup
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			saved, err := store.SaveSettings(ctx, update)
			if err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Settings saved (theme %s, currency %s)", saved.Theme, saved.Currency)))
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "theme (light, dark, system)")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency code")
	cmd.Flags().StringVar(&language, "language", "", "language code")
	cmd.Flags().BoolVar(&autoBackup, "auto-backup", true, "enable automatic backup reminders")

	return cmd
}
