package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/ledger/ledger.db"), cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, DefaultLookahead, cfg.Lookahead)
	assert.Equal(t, DefaultPINCost, cfg.PINCost)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `database:
  path: ` + filepath.Join(dir, "data.db") + `
recurrence:
  lookahead: 12
security:
  pin_cost: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.db"), cfg.DatabasePath)
	assert.Equal(t, 12, cfg.Lookahead)
	assert.Equal(t, 4, cfg.PINCost)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "lookahead too small", key: "recurrence.lookahead", value: 1},
		{name: "pin cost too small", key: "security.pin_cost", value: 2},
		{name: "pin cost too large", key: "security.pin_cost", value: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEDGER_TEST_DIR", "/srv/ledger")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data/ledger.db"), ExpandPath("~/data/ledger.db"))
	assert.Equal(t, "/srv/ledger/ledger.db", ExpandPath("$LEDGER_TEST_DIR/ledger.db"))
}
