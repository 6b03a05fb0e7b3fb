package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/common"
	"github.com/Veraticus/haul/internal/config"
	"github.com/Veraticus/haul/internal/model"
	"github.com/Veraticus/haul/internal/records"
	"github.com/Veraticus/haul/internal/storage"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// app is what most commands need: configuration, the database and the
// loaded records.
type app struct {
	cfg   *config.Config
	db    *storage.SQLiteStorage
	store *records.Store
}

// openApp loads configuration, opens and migrates the database and loads
// every collection. A collection that fails to load is left empty with a
// warning rather than failing the command.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	db, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := records.Open(ctx, db, records.Options{})
	if err != nil {
		slog.Warn("some collections could not be loaded and start empty", "error", err)
	}

	return &app{cfg: cfg, db: db, store: store}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// withApp wraps a command body that needs an open app.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// saved reports a mutation result. A persist failure fails the command with
// "change was not saved to disk" and the cause; the change stays in memory
// and is not rolled back.
func saved(err error) error {
	if err != nil && common.IsPersistFailure(err) {
		return common.NewUserError("change was not saved to disk", err)
	}
	return err
}

// resolveID finds the one id in ids that equals or starts with prefix.
func resolveID(prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", common.ErrNotFound)
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous: matches %d records", prefix, len(matches))
	}
}

func idsOf[T records.Record](items []T) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.RecordID()
	}
	return ids
}

// parseMoney parses a decimal flag value, allowing a leading $ and commas.
func parseMoney(name, value string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(value), "$"), ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}

// decimalFlag returns the parsed value of a string flag, or nil when the
// flag was not given.
func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	d, err := parseMoney(name, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// requiredDecimal returns a decimal flag that must be present.
func requiredDecimal(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	d, err := decimalFlag(cmd, name)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, fmt.Errorf("--%s is required", name)
	}
	return *d, nil
}

// stringFlag returns a string flag's value when it was given.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// dateOrToday normalizes a --date value, defaulting to today. It accepts
// YYYY-MM-DD, "today" and "yesterday".
func dateOrToday(value string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return model.FormatDate(now), nil
	case "yesterday":
		return model.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	if _, err := model.ParseDate(value); err != nil {
		return "", err
	}
	return value, nil
}

// yearOrCurrent parses a --year value, defaulting to now's year.
func yearOrCurrent(value string, now time.Time) (int, error) {
	if value == "" {
		return now.Year(), nil
	}
	y, err := strconv.Atoi(value)
	if err != nil || y < 1900 || y > 9999 {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidYear, value)
	}
	return y, nil
}

// notFound turns a missing record into a friendly message.
func notFound(kind string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(kind+" not found", err)
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// confirmDelete asks before a destructive change unless --yes was given.
func confirmDelete(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}

	ok, err := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), question)
	if err != nil {
		return false, err
	}
	if !ok {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
	}
	return ok, err
}
