package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/report"
	"github.com/Veraticus/haul/internal/tui"
	"github.com/Veraticus/haul/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through weeks, months and years interactively",
		Long: `Open a full-screen browser over your summaries and ledger.

Use ←/→ to move between periods, w/m/y to switch period length, tab to
flip between the summary and the ledger, and ? for every key.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			periodFlag, _ := cmd.Flags().GetString("period")
			kind, err := report.ParsePeriodKind(periodFlag)
			if err != nil {
				return err
			}

			anchor, err := anchorDate(cmd)
			if err != nil {
				return err
			}

			themeName, _ := cmd.Flags().GetString("theme")
			if themeName == "" {
				themeName = a.cfg.Theme
			}

			return tui.Run(cmd.Context(), a.store,
				tui.WithPeriod(kind, anchor),
				tui.WithTheme(themes.GetTheme(themeName)),
			)
		}),
	}

	cmd.Flags().String("period", "month", "Starting period: week, month or year")
	cmd.Flags().String("date", "", "Any date inside the starting period, YYYY-MM-DD (default today)")
	cmd.Flags().String("theme", "", "Color theme: default or catppuccin-mocha (default tui.theme)")

	return cmd
}
