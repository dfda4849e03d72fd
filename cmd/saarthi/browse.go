package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saarthi-app/saarthi/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse profiles interactively",
		Long: `Open the tabbed browse screen: directory, loans, investments, and CIBIL
views with incremental search, category filters, and pagination.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			currency := configuredCurrency(ctx, store)

			program := tea.NewProgram(tui.NewBrowseModel(store, currency), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browse screen failed: %w", err)
			}
			return nil
		},
	}
}
