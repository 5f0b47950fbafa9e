// Package config provides the settings surface for costnote. Configuration
// is loaded from an optional YAML file in the vault, after which environment
// variables (including those from a .env file) override individual fields.
//
// Example costnote.yaml:
//
//	currency: CNY
//	timezone: Asia/Shanghai
//	default_account: Assets:Cash
//	accounts:
//	  food: Expenses:Needs:Food
//	  cash: Assets:Cash
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/costnote/costflow"
)

// ModeBeancount is the only supported output mode.
const ModeBeancount = "beancount"

// Config holds the settings consumed by the parser and the journal. It is
// treated as immutable once handed to a Journal; settings changes replace it
// wholesale.
type Config struct {
	Mode           string            `yaml:"mode" env:"COSTNOTE_MODE"`
	Currency       string            `yaml:"currency" env:"COSTNOTE_CURRENCY"`
	Timezone       string            `yaml:"timezone" env:"COSTNOTE_TIMEZONE"`
	DefaultAccount string            `yaml:"default_account" env:"COSTNOTE_DEFAULT_ACCOUNT"`
	Accounts       map[string]string `yaml:"accounts"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Mode:           ModeBeancount,
		Currency:       "CNY",
		Timezone:       "UTC",
		DefaultAccount: "Assets:Cash",
		Accounts:       map[string]string{},
	}
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty or the file does not exist), applies .env and environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration. Configuration errors are the only
// errors costnote surfaces during processing, so everything that could fail
// later is checked here.
func (c *Config) Validate() error {
	if c.Mode != ModeBeancount {
		return fmt.Errorf("unsupported mode %q, expected %q", c.Mode, ModeBeancount)
	}

	if c.Currency == "" {
		return fmt.Errorf("currency must not be empty")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if !costflow.ValidAccount(c.DefaultAccount) {
		return fmt.Errorf("invalid default account %q", c.DefaultAccount)
	}

	for alias, account := range c.Accounts {
		if alias == "" {
			return fmt.Errorf("account alias must not be empty")
		}
		if !costflow.ValidAccount(account) {
			return fmt.Errorf("invalid account %q for alias %q", account, alias)
		}
	}

	return nil
}

// Location resolves the configured timezone. Validate has already checked it
// on any loaded Config.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
