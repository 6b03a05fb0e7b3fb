package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/model"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Record business expenses",
	}

	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseShowCmd())
	cmd.AddCommand(expenseUpdateCmd())
	cmd.AddCommand(expenseDeleteCmd())

	return cmd
}

func categoryHelp() string {
	names := make([]string, 0, len(model.ExpenseCategories()))
	for _, c := range model.ExpenseCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func addExpenseFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "Expense date, YYYY-MM-DD (default today)")
	cmd.Flags().String("category", "", "One of: "+categoryHelp())
	cmd.Flags().String("amount", "", "Amount paid")
	cmd.Flags().String("description", "", "What it was for")
	cmd.Flags().String("notes", "", "Notes")
	cmd.Flags().String("receipt", "", "Path or reference to a receipt image")
}

func categoryFlag(cmd *cobra.Command) (*model.ExpenseCategory, error) {
	raw := stringFlag(cmd, "category")
	if raw == nil {
		return nil, nil
	}
	c, err := model.ParseExpenseCategory(*raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func expenseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record an expense.

Examples:
  haul expense add --category tolls --amount 12.50 --description "I-35 toll"
  haul expense add --category lodging --amount 89 --description "Motel, Amarillo" --date 2024-03-14`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			date, err := dateOrToday(dateFlag, time.Now())
			if err != nil {
				return err
			}
			amount, err := requiredDecimal(cmd, "amount")
			if err != nil {
				return err
			}
			category, err := categoryFlag(cmd)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("--category is required (%s)", categoryHelp())
			}

			expense := model.Expense{
				Date:     date,
				Category: *category,
				Amount:   amount,
			}
			expense.Description, _ = cmd.Flags().GetString("description")
			expense.Notes, _ = cmd.Flags().GetString("notes")
			expense.ReceiptImage, _ = cmd.Flags().GetString("receipt")

			expense, err = a.store.Expenses.Add(cmd.Context(), expense)
			if err != nil {
				return saved(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Recorded %s %s on %s (%s)",
				expense.Category.Label(), cli.FormatMoney(expense.Amount), expense.Date, shortID(expense.ID))))
			return err
		}),
	}
	addExpenseFlags(cmd)
	return cmd
}

func expenseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			prefix, _ := cmd.Flags().GetString("month")
			if year, _ := cmd.Flags().GetString("year"); prefix == "" && year != "" {
				prefix = year
			}
			category, err := categoryFlag(cmd)
			if err != nil {
				return err
			}

			var expenses []model.Expense
			for _, e := range a.store.Expenses.List() {
				if !strings.HasPrefix(e.Date, prefix) {
					continue
				}
				if category != nil && e.Category != *category {
					continue
				}
				expenses = append(expenses, e)
			}
			if len(expenses) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No expenses found"))
				return err
			}

			sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date > expenses[j].Date })
			return cli.RenderExpenses(cmd.OutOrStdout(), expenses)
		}),
	}
	cmd.Flags().String("month", "", "Only expenses in this month, YYYY-MM")
	cmd.Flags().String("year", "", "Only expenses in this year, YYYY")
	cmd.Flags().String("category", "", "Only this category")
	return cmd
}

func expenseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an expense",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Expenses.List()))
			if err != nil {
				return notFound("expense", err)
			}
			expense, _ := a.store.Expenses.Get(id)
			return export.JSON(cmd.OutOrStdout(), expense)
		}),
	}
}

func expenseUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Expenses.List()))
			if err != nil {
				return notFound("expense", err)
			}

			patch := model.ExpensePatch{
				Date:         stringFlag(cmd, "date"),
				Description:  stringFlag(cmd, "description"),
				Notes:        stringFlag(cmd, "notes"),
				ReceiptImage: stringFlag(cmd, "receipt"),
			}
			if patch.Category, err = categoryFlag(cmd); err != nil {
				return err
			}
			if patch.Amount, err = decimalFlag(cmd, "amount"); err != nil {
				return err
			}

			expense, err := a.store.Expenses.Update(cmd.Context(), id, patch)
			if err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated expense "+shortID(expense.ID)))
			return err
		}),
	}
	addExpenseFlags(cmd)
	return cmd
}

func expenseDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := resolveID(args[0], idsOf(a.store.Expenses.List()))
			if err != nil {
				return notFound("expense", err)
			}
			expense, _ := a.store.Expenses.Get(id)

			ok, err := confirmDelete(cmd, fmt.Sprintf("Delete %s expense of %s on %s?",
				expense.Category.Label(), cli.FormatMoney(expense.Amount), expense.Date))
			if err != nil || !ok {
				return err
			}
			if err := a.store.Expenses.Delete(cmd.Context(), id); err != nil {
				return saved(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted expense "+shortID(id)))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}
