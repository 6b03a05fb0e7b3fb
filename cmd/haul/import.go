package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bring expenses in from bank statements",
	}
	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx <file|glob>...",
		Short: "Import debits from OFX/QFX statements as expenses",
		Long: `Import every debit in one or more OFX or QFX statements as an expense.

Credits are skipped. Each imported expense remembers the bank's transaction
id, so importing the same statement twice adds nothing the second time.
Categories are guessed from the merchant name; fix any with
"haul expense update".

Examples:
  haul import ofx ~/Downloads/checking.qfx
  haul import ofx "statements/*.ofx" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "Expenses imported so far have been saved.")
			defer stop()

			seen := make(map[string]bool)
			for _, e := range a.store.Expenses.List() {
				if id, ok := ofx.ImportID(e); ok {
					seen[id] = true
				}
			}

			parser := ofx.NewParser(slog.Default())
			var imported, duplicates int

			for _, path := range files {
				expenses, err := parseStatement(ctx, parser, path)
				if err != nil {
					return err
				}

				for _, e := range expenses {
					if err := ctx.Err(); err != nil {
						return err
					}

					id, _ := ofx.ImportID(e)
					if seen[id] {
						duplicates++
						continue
					}
					seen[id] = true

					if dryRun {
						fmt.Fprintf(out, "  %s  %-12s %10s  %s\n", e.Date, e.Category.Label(), cli.FormatMoney(e.Amount), e.Description)
						imported++
						continue
					}
					if _, err := a.store.Expenses.Add(ctx, e); err != nil {
						return saved(err)
					}
					imported++
				}
			}

			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			msg := fmt.Sprintf("%s %d expenses from %d files", verb, imported, len(files))
			if duplicates > 0 {
				msg += fmt.Sprintf(" (%d already imported)", duplicates)
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(msg))
			return err
		}),
	}
	cmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")
	return cmd
}

// expandFiles resolves glob patterns the shell left alone.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]model.Expense, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	expenses, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return expenses, nil
}
