package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/fuel"
	"github.com/Veraticus/haul/internal/model"
)

func fuelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Log fill-ups and see fuel statistics",
	}

	cmd.AddCommand(fuelAddCmd())
	cmd.AddCommand(fuelListCmd())
	cmd.AddCommand(fuelShowCmd())
	cmd.AddCommand(fuelUpdateCmd())
	cmd.AddCommand(fuelDeleteCmd())
	cmd.AddCommand(fuelStatsCmd())

	return cmd
}

func addFuelFlags(cmd *cobra.Command) {
	cmd.Flags().String("truck", "", "Truck id (or unique prefix)")
	cmd.Flags().String("date", "", "Fill-up date, YYYY-MM-DD (default today)")
	cmd.Flags().String("gallons", "", "Gallons pumped")
	cmd.Flags().String("price", "", "Price per gallon")
	cmd.Flags().String("total", "", "Total paid (default gallons x price)")
	cmd.Flags().String("odometer", "", "Odometer reading")
	cmd.Flags().String("mpg", "", "MPG shown by the truck, if any")
	cmd.Flags().String("location", "", "Where you fueled")
	cmd.Flags().Bool("fill-up", true, "Whether the tank was filled")
	cmd.Flags().String("notes", "", "Notes")
}

// truckFlag resolves --truck against the saved trucks. It returns nil when
// the flag was not given.
func truckFlag(cmd *cobra.Command, a *app) (*string, error) {
	raw := stringFlag(cmd, "truck")
	if raw == nil || *raw == "" {
		return raw, nil
	}
	id, err := resolveID(*raw, idsOf(a.store.Trucks.List()))
	if err != nil {
		return nil, notFound("truck", err)
	}
	return &id, nil
}

func fuelAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a fuel purchase",
		Long: `Log a fuel purchase.

Examples:
  haul fuel add --gallons 120.5 --price 3.899 --odometer 412880 --location "Pilot, Amarillo"
  haul fuel add --truck 3f2a --gallons 80 --price 4.05 --odometer 413400 --fill-up=false`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			date, err := dateOrToday(dateFlag, time.Now())
			if err != nil {
				return err
			}
			gallons, err := requiredDecimal(cmd, "gallons")
			if err != nil {
				return err
			}
			price, err := requiredDecimal(cmd, "price")
			if err != nil {
				return err
			}
			odometer, err := requiredDecimal(cmd, "odometer")
			if err != nil {
				return err
			}
			truckID, err := truckFlag(cmd, a)
			if err != nil {
				return err
			}

			entry := model.FuelEntry{
				Date:           date,
				Gallons:        gallons,
				PricePerGallon: price,
				Odometer:       odometer,
			}
			if truckID != nil {
				entry.TruckID = *truckID
			}
			if total, err := decimalFlag(cmd, "total"); err != nil {
				return err
			} else if total != nil {
				entry.TotalCost = *total
			}
			if entry.MPG, err = decimalFlag(cmd, "mpg"); err != nil {
				return err
			}
			entry.IsFillUp, _ = cmd.Flags().GetBool("fill-up")
			entry.Location, _ = cmd.Flags().GetString("location")
			entry.Notes, _ = cmd.Flags().GetString("notes")

			entry, err = a.store.Fuel.Add(cmd.Context(), entry)
			if err != nil {
				return saved(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Logged %s gal for %s on %s (%s)",
				entry.Gallons.String(), cli.FormatMoney(entry.TotalCost), entry.Date, shortID(entry.ID))))
			return err
		}),
	}
	addFuelFlags(cmd)
	return cmd
}

func fuelListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List fuel entries, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			filter, err := fuelFilter(cmd, a)
			if err != nil {
				return err
			}

			var entries []model.FuelEntry
			for _, e := range a.store.Fuel.List() {
				if filter.Matches(e) {
					entries = append(entries, e)
				}
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No fuel entries found"))
				return err
			}

			sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
			return cli.RenderFuelEntries(cmd.OutOrStdout(), entries)
		}),
	}
	addFuelFilterFlags(cmd)
	return cmd
}

func addFuelFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("truck", "", "Only this truck (id or unique prefix)")
	cmd.Flags().String("from", "", "Start date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "End date, YYYY-MM-DD")
}

func fuelFilter(cmd *cobra.Command, a *app) (fuel.Filter, error) {
	var f fuel.Filter
	truckID, err := truckFlag(cmd, a)
	if err != nil {
		return f, err
	}
	if truckID != nil {
		f.TruckID = *truckID
	}

	f.StartDate, _ = cmd.Flags().GetString("from")
	f.EndDate, _ = cmd.Flags().GetString("to")
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := model.ParseDate(d); err != nil {
			return f, err
		}
	}
	return f, nil
}

func fuelShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a fuel entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Fuel.List()))
			if err != nil {
				return notFound("fuel entry", err)
			}
			entry, _ := a.store.Fuel.Get(id)
			return export.JSON(cmd.OutOrStdout(), entry)
		}),
	}
}

func fuelUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a fuel entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Fuel.List()))
			if err != nil {
				return notFound("fuel entry", err)
			}

			patch := model.FuelEntryPatch{
				Date:     stringFlag(cmd, "date"),
				Location: stringFlag(cmd, "location"),
				Notes:    stringFlag(cmd, "notes"),
				IsFillUp: boolFlag(cmd, "fill-up"),
			}
			if patch.TruckID, err = truckFlag(cmd, a); err != nil {
				return err
			}
			for name, dst := range map[string]**decimal.Decimal{
				"gallons":  &patch.Gallons,
				"price":    &patch.PricePerGallon,
				"total":    &patch.TotalCost,
				"odometer": &patch.Odometer,
				"mpg":      &patch.MPG,
			} {
				if *dst, err = decimalFlag(cmd, name); err != nil {
					return err
				}
			}

			entry, err := a.store.Fuel.Update(cmd.Context(), id, patch)
			if err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated fuel entry "+shortID(entry.ID)))
			return err
		}),
	}
	addFuelFlags(cmd)
	return cmd
}

func fuelDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a fuel entry",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Fuel.List()))
			if err != nil {
				return notFound("fuel entry", err)
			}
			entry, _ := a.store.Fuel.Get(id)

			ok, err := confirmDelete(cmd, fmt.Sprintf("Delete fuel entry of %s gal on %s?", entry.Gallons.String(), entry.Date))
			if err != nil || !ok {
				return err
			}
			if err := a.store.Fuel.Delete(cmd.Context(), id); err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted fuel entry "+shortID(id)))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}

func fuelStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show fuel statistics",
		Long: `Show totals, average price, miles driven, MPG and cost per mile for the
selected fuel entries. Miles are measured from the first to the last
odometer reading in the selection.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			filter, err := fuelFilter(cmd, a)
			if err != nil {
				return err
			}
			stats := fuel.Compute(a.store.Fuel.List(), filter, time.Now())
			return cli.RenderFuelStats(cmd.OutOrStdout(), stats)
		}),
	}
	addFuelFilterFlags(cmd)
	return cmd
}
