package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/model"
)

func tripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trip",
		Aliases: []string{"trips"},
		Short:   "Record completed trips and what they earned",
	}

	cmd.AddCommand(tripAddCmd())
	cmd.AddCommand(tripListCmd())
	cmd.AddCommand(tripShowCmd())
	cmd.AddCommand(tripUpdateCmd())
	cmd.AddCommand(tripDeleteCmd())

	return cmd
}

func addTripFlags(cmd *cobra.Command) {
	cmd.Flags().String("route", "", "Route name; a saved route also supplies the default earnings")
	cmd.Flags().String("date", "", "Trip date, YYYY-MM-DD (default today)")
	cmd.Flags().String("earnings", "", "What the trip paid")
	cmd.Flags().String("trailer", "", "Trailer number")
	cmd.Flags().String("fuel-cost", "", "Fuel bought for this trip")
	cmd.Flags().String("other", "", "Other trip costs")
	cmd.Flags().String("notes", "", "Notes")
}

func tripAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trip",
		Long: `Record a trip. When --route names a saved route and --earnings is not
given, the route's payment is used.

Examples:
  haul trip add --route "Dallas - Houston" --trailer T-204
  haul trip add --route "Tulsa run" --earnings 850 --fuel-cost 210.40 --date 2024-03-15`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			date, err := dateOrToday(dateFlag, time.Now())
			if err != nil {
				return err
			}

			routeName, _ := cmd.Flags().GetString("route")
			earnings, err := decimalFlag(cmd, "earnings")
			if err != nil {
				return err
			}
			if earnings == nil {
				route, ok := findRouteByName(a.store.Routes.List(), routeName)
				if !ok {
					return fmt.Errorf("--earnings is required unless --route names a saved route")
				}
				routeName = route.Name
				earnings = &route.Payment
			}

			trip := model.Trip{
				RouteName:     routeName,
				Date:          date,
				Earnings:      *earnings,
				FuelCost:      decimal.Zero,
				OtherExpenses: decimal.Zero,
			}
			trip.TrailerNumber, _ = cmd.Flags().GetString("trailer")
			trip.Notes, _ = cmd.Flags().GetString("notes")
			if fuel, err := decimalFlag(cmd, "fuel-cost"); err != nil {
				return err
			} else if fuel != nil {
				trip.FuelCost = *fuel
			}
			if other, err := decimalFlag(cmd, "other"); err != nil {
				return err
			} else if other != nil {
				trip.OtherExpenses = *other
			}

			trip, err = a.store.Trips.Add(cmd.Context(), trip)
			if err != nil {
				return saved(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Recorded %s on %s: %s earned, %s net (%s)",
				trip.RouteName, trip.Date, cli.FormatMoney(trip.Earnings), cli.FormatMoney(trip.NetProfit()), shortID(trip.ID))))
			return err
		}),
	}
	addTripFlags(cmd)
	return cmd
}

func findRouteByName(routes []model.Route, name string) (model.Route, bool) {
	name = strings.TrimSpace(name)
	for _, r := range routes {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return model.Route{}, false
}

func tripListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trips, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			prefix, _ := cmd.Flags().GetString("month")
			if year, _ := cmd.Flags().GetString("year"); prefix == "" && year != "" {
				prefix = year
			}

			var trips []model.Trip
			for _, t := range a.store.Trips.List() {
				if strings.HasPrefix(t.Date, prefix) {
					trips = append(trips, t)
				}
			}
			if len(trips) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No trips found"))
				return err
			}

			sort.SliceStable(trips, func(i, j int) bool { return trips[i].Date > trips[j].Date })
			return cli.RenderTrips(cmd.OutOrStdout(), trips)
		}),
	}
	cmd.Flags().String("month", "", "Only trips in this month, YYYY-MM")
	cmd.Flags().String("year", "", "Only trips in this year, YYYY")
	return cmd
}

func tripShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trip",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trips.List()))
			if err != nil {
				return notFound("trip", err)
			}
			trip, _ := a.store.Trips.Get(id)
			return export.JSON(cmd.OutOrStdout(), trip)
		}),
	}
}

func tripUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trips.List()))
			if err != nil {
				return notFound("trip", err)
			}

			patch := model.TripPatch{
				RouteName:     stringFlag(cmd, "route"),
				Date:          stringFlag(cmd, "date"),
				TrailerNumber: stringFlag(cmd, "trailer"),
				Notes:         stringFlag(cmd, "notes"),
			}
			if patch.Earnings, err = decimalFlag(cmd, "earnings"); err != nil {
				return err
			}
			if patch.FuelCost, err = decimalFlag(cmd, "fuel-cost"); err != nil {
				return err
			}
			if patch.OtherExpenses, err = decimalFlag(cmd, "other"); err != nil {
				return err
			}

			trip, err := a.store.Trips.Update(cmd.Context(), id, patch)
			if err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated trip %s on %s", trip.RouteName, trip.Date)))
			return err
		}),
	}
	addTripFlags(cmd)
	return cmd
}

func tripDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a trip",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trips.List()))
			if err != nil {
				return notFound("trip", err)
			}
			trip, _ := a.store.Trips.Get(id)

			ok, err := confirmDelete(cmd, fmt.Sprintf("Delete trip %s on %s?", trip.RouteName, trip.Date))
			if err != nil || !ok {
				return err
			}
			if err := a.store.Trips.Delete(cmd.Context(), id); err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted trip "+shortID(id)))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}
