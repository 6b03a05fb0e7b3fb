package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/model"
)

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "route",
		Aliases: []string{"routes"},
		Short:   "Manage saved routes and what they pay",
	}

	cmd.AddCommand(routeAddCmd())
	cmd.AddCommand(routeListCmd())
	cmd.AddCommand(routeShowCmd())
	cmd.AddCommand(routeUpdateCmd())
	cmd.AddCommand(routeDeleteCmd())

	return cmd
}

func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Route name, e.g. \"Dallas - Houston\"")
	cmd.Flags().String("payment", "", "What the route pays")
	cmd.Flags().String("distance", "", "Distance in miles")
	cmd.Flags().String("notes", "", "Notes")
}

func routeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new route",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			payment, err := requiredDecimal(cmd, "payment")
			if err != nil {
				return err
			}
			distance, err := decimalFlag(cmd, "distance")
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			notes, _ := cmd.Flags().GetString("notes")

			route, err := a.store.Routes.Add(cmd.Context(), model.Route{
				Name:     name,
				Payment:  payment,
				Distance: distance,
				Notes:    notes,
			})
			if err != nil {
				return saved(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added route %s (%s)", route.Name, shortID(route.ID))))
			return err
		}),
	}
	addRouteFlags(cmd)
	return cmd
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List routes",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			routes := a.store.Routes.List()
			if len(routes) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No routes yet. Add one with 'haul route add'"))
				return err
			}
			return cli.RenderRoutes(cmd.OutOrStdout(), routes)
		}),
	}
}

func routeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a route",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Routes.List()))
			if err != nil {
				return notFound("route", err)
			}
			route, _ := a.store.Routes.Get(id)
			return export.JSON(cmd.OutOrStdout(), route)
		}),
	}
}

func routeUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a route",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Routes.List()))
			if err != nil {
				return notFound("route", err)
			}

			patch := model.RoutePatch{
				Name:  stringFlag(cmd, "name"),
				Notes: stringFlag(cmd, "notes"),
			}
			if patch.Payment, err = decimalFlag(cmd, "payment"); err != nil {
				return err
			}
			if patch.Distance, err = decimalFlag(cmd, "distance"); err != nil {
				return err
			}

			route, err := a.store.Routes.Update(cmd.Context(), id, patch)
			if err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated route "+route.Name))
			return err
		}),
	}
	addRouteFlags(cmd)
	return cmd
}

func routeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a route",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Routes.List()))
			if err != nil {
				return notFound("route", err)
			}
			route, _ := a.store.Routes.Get(id)

			ok, err := confirmDelete(cmd, "Delete route "+route.Name+"?")
			if err != nil || !ok {
				return err
			}
			if err := a.store.Routes.Delete(cmd.Context(), id); err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted route "+route.Name))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}
