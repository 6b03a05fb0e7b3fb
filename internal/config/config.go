// Package config loads haul's settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/haul/internal/common"
)

// Defaults.
const (
	DefaultDatabasePath        = "$HOME/.local/share/haul/haul.db"
	DefaultStandardMileageRate = "0.655"
)

// User identifies the driver in backup files.
type User struct {
	ID    string
	Name  string
	Email string
}

// Config is the resolved application configuration.
type Config struct {
	User                User
	DatabasePath        string
	BackupDir           string
	LogLevel            string
	LogFormat           string
	Theme               string
	StandardMileageRate decimal.Decimal
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("tax.standard_mileage_rate", DefaultStandardMileageRate)
	v.SetDefault("user.id", "local")
	v.SetDefault("user.name", "Driver")
	v.SetDefault("tui.theme", "default")
}

// Load resolves a Config from v. Paths are expanded and the backup directory
// defaults to a "backups" folder next to the database.
func Load(v *viper.Viper) (*Config, error) {
	dbPath := ExpandPath(v.GetString("database.path"))
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	backupDir := ExpandPath(v.GetString("backup.dir"))
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(dbPath), "backups")
	}

	rateStr := v.GetString("tax.standard_mileage_rate")
	if rateStr == "" {
		rateStr = DefaultStandardMileageRate
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil || rate.IsNegative() {
		return nil, fmt.Errorf("%w: tax.standard_mileage_rate %q", common.ErrInvalidConfig, rateStr)
	}

	return &Config{
		DatabasePath:        dbPath,
		BackupDir:           backupDir,
		LogLevel:            v.GetString("logging.level"),
		LogFormat:           v.GetString("logging.format"),
		Theme:               v.GetString("tui.theme"),
		StandardMileageRate: rate,
		User: User{
			ID:    v.GetString("user.id"),
			Name:  v.GetString("user.name"),
			Email: v.GetString("user.email"),
		},
	}, nil
}

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}
