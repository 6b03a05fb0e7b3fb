package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/model"
)

func truckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "truck",
		Aliases: []string{"trucks"},
		Short:   "Manage the trucks you drive",
	}

	cmd.AddCommand(truckAddCmd())
	cmd.AddCommand(truckListCmd())
	cmd.AddCommand(truckShowCmd())
	cmd.AddCommand(truckUpdateCmd())
	cmd.AddCommand(truckDeleteCmd())

	return cmd
}

func addTruckFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Nickname for the truck")
	cmd.Flags().String("make", "", "Make, e.g. Freightliner")
	cmd.Flags().String("model", "", "Model, e.g. Cascadia")
	cmd.Flags().Int("year", 0, "Model year")
	cmd.Flags().String("plate", "", "Plate number")
	cmd.Flags().String("vin", "", "VIN")
	cmd.Flags().String("color", "", "Color")
	cmd.Flags().String("purchase-date", "", "Purchase date, YYYY-MM-DD")
	cmd.Flags().String("mileage", "", "Current mileage")
	cmd.Flags().Bool("active", true, "Whether the truck is in service")
	cmd.Flags().String("notes", "", "Notes")
}

func truckAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a truck",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			mileage, err := decimalFlag(cmd, "mileage")
			if err != nil {
				return err
			}

			var truck model.Truck
			truck.Name, _ = cmd.Flags().GetString("name")
			truck.Make, _ = cmd.Flags().GetString("make")
			truck.Model, _ = cmd.Flags().GetString("model")
			truck.Year, _ = cmd.Flags().GetInt("year")
			truck.PlateNumber, _ = cmd.Flags().GetString("plate")
			truck.VIN, _ = cmd.Flags().GetString("vin")
			truck.Color, _ = cmd.Flags().GetString("color")
			truck.PurchaseDate, _ = cmd.Flags().GetString("purchase-date")
			truck.IsActive, _ = cmd.Flags().GetBool("active")
			truck.Notes, _ = cmd.Flags().GetString("notes")
			truck.Mileage = mileage

			truck, err = a.store.Trucks.Add(cmd.Context(), truck)
			if err != nil {
				return saved(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", truck.DisplayName(), shortID(truck.ID))))
			return err
		}),
	}
	addTruckFlags(cmd)
	return cmd
}

func truckListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trucks",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			trucks := a.store.Trucks.List()
			if activeOnly, _ := cmd.Flags().GetBool("active-only"); activeOnly {
				trucks = a.store.Trucks.Active()
			}
			if len(trucks) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No trucks found"))
				return err
			}
			return cli.RenderTrucks(cmd.OutOrStdout(), trucks)
		}),
	}
	cmd.Flags().Bool("active-only", false, "Only trucks in service")
	return cmd
}

func truckShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a truck",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trucks.List()))
			if err != nil {
				return notFound("truck", err)
			}
			truck, _ := a.store.Trucks.Get(id)
			return export.JSON(cmd.OutOrStdout(), truck)
		}),
	}
}

func truckUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a truck",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trucks.List()))
			if err != nil {
				return notFound("truck", err)
			}

			patch := model.TruckPatch{
				Name:         stringFlag(cmd, "name"),
				Make:         stringFlag(cmd, "make"),
				Model:        stringFlag(cmd, "model"),
				VIN:          stringFlag(cmd, "vin"),
				PlateNumber:  stringFlag(cmd, "plate"),
				Color:        stringFlag(cmd, "color"),
				PurchaseDate: stringFlag(cmd, "purchase-date"),
				Notes:        stringFlag(cmd, "notes"),
				Year:         intFlag(cmd, "year"),
				IsActive:     boolFlag(cmd, "active"),
			}
			if patch.Mileage, err = decimalFlag(cmd, "mileage"); err != nil {
				return err
			}

			truck, err := a.store.Trucks.Update(cmd.Context(), id, patch)
			if err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+truck.DisplayName()))
			return err
		}),
	}
	addTruckFlags(cmd)
	return cmd
}

func truckDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a truck",
		Long:    "Delete a truck. Fuel entries that point at it are kept.",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Trucks.List()))
			if err != nil {
				return notFound("truck", err)
			}
			truck, _ := a.store.Trucks.Get(id)

			ok, err := confirmDelete(cmd, "Delete "+truck.DisplayName()+"?")
			if err != nil || !ok {
				return err
			}
			if err := a.store.Trucks.Delete(cmd.Context(), id); err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+truck.DisplayName()))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}
