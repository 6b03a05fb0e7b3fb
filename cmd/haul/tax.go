package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/tax"
)

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate the year's income tax",
		Long: `Estimate federal income tax for a year using single-filer brackets.

The actual-expenses method deducts recorded expenses plus trip costs. The
standard-mileage method deducts --miles times the configured rate
(tax.standard_mileage_rate, default 0.655) instead.

This is an estimate for planning quarterly payments, not tax advice.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			yearFlag, _ := cmd.Flags().GetString("year")
			year, err := yearOrCurrent(yearFlag, time.Now())
			if err != nil {
				return err
			}

			method, _ := cmd.Flags().GetString("method")
			var standard bool
			switch strings.ToLower(method) {
			case "actual", "":
			case "standard", "mileage":
				standard = true
			default:
				return fmt.Errorf("--method must be actual or standard, got %q", method)
			}

			miles := decimal.Zero
			if m, err := decimalFlag(cmd, "miles"); err != nil {
				return err
			} else if m != nil {
				if m.IsNegative() {
					return fmt.Errorf("--miles cannot be negative")
				}
				miles = *m
			}

			estimator := tax.DefaultEstimator()
			estimator.StandardMileageRate = a.cfg.StandardMileageRate

			estimate := estimator.Estimate(tax.Input{
				Year:               year,
				Trips:              a.store.Trips.List(),
				Expenses:           a.store.Expenses.List(),
				EstimatedMiles:     miles,
				UseStandardMileage: standard,
			})
			return cli.RenderTax(cmd.OutOrStdout(), estimate)
		}),
	}

	cmd.Flags().String("year", "", "Tax year (default this year)")
	cmd.Flags().String("miles", "", "Business miles driven in the year")
	cmd.Flags().String("method", "actual", "Deduction method: actual or standard")

	return cmd
}
