package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Every trip and expense for a year, newest first",
		Long: `List trips as earnings and expenses as outflows.

Examples:
  haul ledger --year 2024
  haul ledger --year 2024 --category earnings
  haul ledger --category fuel
  haul ledger --all`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			filter := report.LedgerFilter{}

			if all, _ := cmd.Flags().GetBool("all"); !all {
				yearFlag, _ := cmd.Flags().GetString("year")
				year, err := yearOrCurrent(yearFlag, time.Now())
				if err != nil {
					return err
				}
				filter.Year = year
			}

			category, _ := cmd.Flags().GetString("category")
			if category != "" && category != report.FilterEarnings {
				c, err := model.ParseExpenseCategory(category)
				if err != nil {
					return fmt.Errorf("--category must be %q or an expense category: %w", report.FilterEarnings, err)
				}
				category = string(c)
			}
			filter.Category = category

			entries := report.Ledger(a.store.Trips.List(), a.store.Expenses.List(), filter)
			return cli.RenderLedger(cmd.OutOrStdout(), entries)
		}),
	}

	cmd.Flags().String("year", "", "Year to list (default this year)")
	cmd.Flags().Bool("all", false, "List every year")
	cmd.Flags().String("category", "", "\"earnings\" for trips only, or an expense category")

	return cmd
}
