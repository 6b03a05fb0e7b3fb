package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/report"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Earnings, expenses and profit by day, week, month or year",
		Long: `Summaries add trip earnings and subtract both recorded expenses and the
fuel and other costs entered on trips.

Examples:
  haul summary daily --date yesterday
  haul summary weekly --offset -1     # last week
  haul summary monthly --date 2024-03-01
  haul summary dashboard`,
	}

	cmd.PersistentFlags().String("date", "", "Any date inside the period, YYYY-MM-DD (default today)")
	cmd.PersistentFlags().Int("offset", 0, "Periods to move from --date; negative goes back")

	cmd.AddCommand(summaryDailyCmd())
	cmd.AddCommand(summaryPeriodCmd("weekly", report.PeriodWeek))
	cmd.AddCommand(summaryPeriodCmd("monthly", report.PeriodMonth))
	cmd.AddCommand(summaryPeriodCmd("yearly", report.PeriodYear))
	cmd.AddCommand(summaryDashboardCmd())

	return cmd
}

// anchorDate resolves --date into a day.
func anchorDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	date, err := dateOrToday(raw, time.Now())
	if err != nil {
		return time.Time{}, err
	}
	return model.ParseDate(date)
}

func summaryDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Summary for one day",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			day, err := anchorDate(cmd)
			if err != nil {
				return err
			}
			offset, _ := cmd.Flags().GetInt("offset")
			date := model.FormatDate(day.AddDate(0, 0, offset))

			s := report.Daily(a.store.Trips.List(), a.store.Expenses.List(), date)
			return cli.RenderDaily(cmd.OutOrStdout(), s)
		}),
	}
}

func summaryPeriodCmd(use string, kind report.PeriodKind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Summary for one %s, compared with the one before", kind),
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			day, err := anchorDate(cmd)
			if err != nil {
				return err
			}
			offset, _ := cmd.Flags().GetInt("offset")
			period := report.NewPeriod(kind, day).Shift(offset)

			c := report.Compare(period, a.store.Trips.List(), a.store.Expenses.List())
			return cli.RenderPeriod(cmd.OutOrStdout(), c)
		}),
	}
}

func summaryDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "All-time totals and the current month at a glance",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			data := a.store.Dataset()
			out := cmd.OutOrStdout()

			fleet := report.Fleet(data.Trips, data.Expenses, data.Routes, data.Trucks, data.FuelEntries)
			if err := cli.RenderFleet(out, fleet); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}

			day, err := anchorDate(cmd)
			if err != nil {
				return err
			}
			month := report.NewPeriod(report.PeriodMonth, day)
			return cli.RenderPeriod(out, report.Compare(month, data.Trips, data.Expenses))
		}),
	}
}
