package config

import (
	"fmt"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/spf13/viper"
)

// Default values for configuration keys.
const (
	DefaultDatabasePath = "$HOME/.local/share/ledger/ledger.db"
	DefaultLookahead    = 24
	DefaultPINCost      = 10
)

// Config holds the typed application configuration.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Lookahead    int
	PINCost      int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("recurrence.lookahead", DefaultLookahead)
	v.SetDefault("security.pin_cost", DefaultPINCost)
}

// Load reads the configuration from v, expanding paths and validating values.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		Lookahead:    v.GetInt("recurrence.lookahead"),
		PINCost:      v.GetInt("security.pin_cost"),
	}

	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if cfg.Lookahead < 2 {
		return Config{}, fmt.Errorf("%w: recurrence.lookahead must be at least 2, got %d", common.ErrInvalidConfig, cfg.Lookahead)
	}
	// bcrypt accepts 4..31
	if cfg.PINCost < 4 || cfg.PINCost > 31 {
		return Config{}, fmt.Errorf("%w: security.pin_cost must be between 4 and 31, got %d", common.ErrInvalidConfig, cfg.PINCost)
	}

	return cfg, nil
}
