package main

import (
	"fmt"
	"os"
	"time"

	"github.com/saarthi-app/saarthi/internal/backup"
	"github.com/saarthi-app/saarthi/internal/cli"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all profiles and settings to a JSON backup",
		Long: `Write the full collection and settings as a formatted JSON backup file.
Without a file argument the backup goes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			codec := backup.NewCodec(store)
			data, err := codec.Export(ctx)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if len(args) == 0 {
				fmt.Println(string(data))
				return nil
			}

			if err := os.WriteFile(args[0], data, 0600); err != nil {
				return fmt.Errorf("failed to write backup file: %w", err)
			}

			// Record the backup time so auto-backup scheduling has a baseline.
			now := time.Now().UTC()
			if _, err := store.SaveSettings(ctx, model.SettingsUpdate{LastBackup: &now}); err != nil {
				return fmt.Errorf("failed to record backup time: %w", err)
			}

			count, err := store.CountPeople(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d profiles to %s", count, args[0])))
			return nil
		},
	}

	return cmd
}

func importCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore profiles from a JSON backup",
		Long: `Replace all current profiles with the contents of a backup file.

This is destructive: existing profiles are cleared before the backup is
restored. Records keep the ids and timestamps stored in the backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied backup path
			if err != nil {
				return fmt.Errorf("failed to read backup file: %w", err)
			}

			// Validate the payload before asking for confirmation, so a
			// malformed file never clears anything.
			payload, err := backup.Decode(data)
			if err != nil {
				return err
			}

			if !yes {
				prompt := fmt.Sprintf("This will replace all current data with %d imported records. Continue?", len(payload.People))
				if !confirm(prompt) {
					fmt.Println(cli.FormatInfo("Import cancelled"))
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(payload.People),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Restoring profiles..."),
			)

			codec := backup.NewCodec(store)
			result, err := codec.Import(ctx, data, func(done, _ int) {
				_ = bar.Set(done)
			})
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			msg := fmt.Sprintf("Imported %d profiles", result.People)
			if result.Settings {
				msg += " and settings"
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every profile",
		Long:  `Empty the people collection. Settings are untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := store.CountPeople(ctx)
			if err != nil {
				return err
			}
			if count == 0 {
				fmt.Println(cli.FormatInfo("Nothing to clear"))
				return nil
			}

			if !yes && !confirm(fmt.Sprintf("Delete all %d profiles?", count)) {
				fmt.Println(cli.FormatInfo("Clear cancelled"))
				return nil
			}

			if err := store.ClearAllPeople(ctx); err != nil {
				return fmt.Errorf("failed to clear profiles: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d profiles", count)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
