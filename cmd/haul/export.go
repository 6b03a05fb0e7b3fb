package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/config"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <trips|expenses|fuel|all>",
		Short: "Export records as CSV or JSON",
		Long: `Export records for a spreadsheet or your accountant.

CSV exports write one file per record type. "all" with --format csv writes
trips.csv, expenses.csv and fuel.csv into the --out directory; with
--format json it writes one snapshot document holding every collection.

Examples:
  haul export trips --year 2024 --out trips-2024.csv
  haul export expenses --format json
  haul export all --out ~/Desktop/haul-2024 --year 2024`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"trips", "expenses", "fuel", "all"},
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			format, _ := cmd.Flags().GetString("format")
			format = strings.ToLower(format)
			if format != "csv" && format != "json" {
				return fmt.Errorf("--format must be csv or json, got %q", format)
			}
			out, _ := cmd.Flags().GetString("out")
			data := a.store.Dataset()
			if y, _ := cmd.Flags().GetString("year"); y != "" {
				year, err := yearOrCurrent(y, time.Now())
				if err != nil {
					return err
				}
				data = filterYear(data, year)
			}
			user := export.User{ID: a.cfg.User.ID, Name: a.cfg.User.Name, Email: a.cfg.User.Email}

			what := args[0]
			switch what {
			case "trips", "expenses", "fuel":
				return exportOne(cmd, what, format, out, data)
			case "all":
				if format == "json" {
					return writeOutput(cmd, out, func(w io.Writer) error {
						return export.JSON(w, export.NewSnapshot(user, data, time.Now()))
					})
				}
				return exportAllCSV(cmd, out, data)
			default:
				return fmt.Errorf("unknown export %q: want trips, expenses, fuel or all", what)
			}
		}),
	}

	cmd.Flags().StringP("format", "f", "csv", "Output format: csv or json")
	cmd.Flags().StringP("out", "o", "", "Output file, or directory for \"all\" as CSV (default stdout)")
	cmd.Flags().String("year", "", "Only records dated in this year")

	return cmd
}

func filterYear(d service.Dataset, year int) service.Dataset {
	prefix := model.YearPrefix(year)
	keep := func(date string) bool { return strings.HasPrefix(date, prefix) }

	out := service.Dataset{Routes: d.Routes, Trucks: d.Trucks}
	for _, t := range d.Trips {
		if keep(t.Date) {
			out.Trips = append(out.Trips, t)
		}
	}
	for _, e := range d.Expenses {
		if keep(e.Date) {
			out.Expenses = append(out.Expenses, e)
		}
	}
	for _, f := range d.FuelEntries {
		if keep(f.Date) {
			out.FuelEntries = append(out.FuelEntries, f)
		}
	}
	return out
}

// writeCSV writes one record type as CSV.
func writeCSV(w io.Writer, what string, data service.Dataset, progress export.Progress) error {
	switch what {
	case "trips":
		return export.TripsCSV(w, data.Trips, progress)
	case "expenses":
		return export.ExpensesCSV(w, data.Expenses, progress)
	default:
		return export.FuelCSV(w, data.FuelEntries, progress)
	}
}

func exportOne(cmd *cobra.Command, what, format, out string, data service.Dataset) error {
	return writeOutput(cmd, out, func(w io.Writer) error {
		if format == "json" {
			switch what {
			case "trips":
				return export.JSON(w, nonNilSlice(data.Trips))
			case "expenses":
				return export.JSON(w, nonNilSlice(data.Expenses))
			default:
				return export.JSON(w, nonNilSlice(data.FuelEntries))
			}
		}

		var progress export.Progress
		if out != "" && out != "-" {
			progress = cli.ExportProgress(cmd.ErrOrStderr(), "Exporting "+what+"...")
		}
		return writeCSV(w, what, data, progress)
	})
}

func exportAllCSV(cmd *cobra.Command, dir string, data service.Dataset) error {
	if dir == "" || dir == "-" {
		dir = "."
	}
	dir = config.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, what := range []string{"trips", "expenses", "fuel"} {
		path := filepath.Join(dir, what+".csv")
		err := writeFile(path, func(w io.Writer) error {
			return writeCSV(w, what, data, cli.ExportProgress(cmd.ErrOrStderr(), "Exporting "+what+"..."))
		})
		if err != nil {
			return err
		}
		slog.Debug("wrote export", "path", path)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Exported %d trips, %d expenses and %d fuel entries to %s",
		len(data.Trips), len(data.Expenses), len(data.FuelEntries), dir)))
	return err
}

// writeOutput sends fn's output to stdout, or to the file out.
func writeOutput(cmd *cobra.Command, out string, fn func(io.Writer) error) error {
	if out == "" || out == "-" {
		return fn(cmd.OutOrStdout())
	}

	path := config.ExpandPath(out)
	if err := writeFile(path, fn); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+path))
	return err
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return fn(f)
}

func nonNilSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
