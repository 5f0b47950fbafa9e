package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/costnote/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "costnote.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	assert.NoError(t, err)

	assert.Equal(t, config.ModeBeancount, cfg.Mode)
	assert.Equal(t, "CNY", cfg.Currency)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "Assets:Cash", cfg.DefaultAccount)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
currency: EUR
timezone: Europe/Amsterdam
default_account: Assets:Checking
accounts:
  food: Expenses:Needs:Food
  cash: Assets:Cash
`)

	cfg, err := config.Load(path)
	assert.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "Europe/Amsterdam", cfg.Timezone)
	assert.Equal(t, "Assets:Checking", cfg.DefaultAccount)
	assert.Equal(t, "Expenses:Needs:Food", cfg.Accounts["food"])
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "CNY", cfg.Currency)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "currency: EUR\n")

	t.Setenv("COSTNOTE_CURRENCY", "USD")

	cfg, err := config.Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unsupported mode", func(c *config.Config) { c.Mode = "ledger" }},
		{"empty currency", func(c *config.Config) { c.Currency = "" }},
		{"unknown timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
		{"invalid default account", func(c *config.Config) { c.DefaultAccount = "cash" }},
		{"empty alias", func(c *config.Config) { c.Accounts[""] = "Assets:Cash" }},
		{"invalid alias target", func(c *config.Config) { c.Accounts["food"] = "food" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "Asia/Shanghai"

	loc, err := cfg.Location()
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())
}
