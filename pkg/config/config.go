package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config is the full application configuration: the two collaborator
// sections plus the form defaults the engine needs.
type Config struct {
	YNAB     YNABConfig     `mapstructure:"ynab"`
	SettleUp SettleUpConfig `mapstructure:"settleup"`
	Form     FormConfig     `mapstructure:"form"`
}

// YNABConfig selects the budget and names the env var holding the API token.
type YNABConfig struct {
	BudgetID string `mapstructure:"budget_id"`
	TokenEnv string `mapstructure:"token_env"`
}

// SettleUpConfig points at the SettleUp REST backend. GroupName picks the
// group to read history from; when no group carries that name the first one
// is used.
type SettleUpConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TokenEnv  string `mapstructure:"token_env"`
	UserID    string `mapstructure:"user_id"`
	GroupName string `mapstructure:"group_name"`
}

// FormConfig holds the form's configured defaults.
type FormConfig struct {
	DefaultCategorySymbol string `mapstructure:"default_category_symbol"`
	DefaultSwileAmount    int64  `mapstructure:"default_swile_amount_milliunits"`
	AutofillDelayMs       int    `mapstructure:"autofill_delay_ms"`
}

// Token resolves the YNAB API token from the configured env var.
func (c YNABConfig) Token() string {
	return os.Getenv(c.TokenEnv)
}

// Token resolves the SettleUp auth token from the configured env var.
func (c SettleUpConfig) Token() string {
	return os.Getenv(c.TokenEnv)
}

// AutofillDelay returns the debounce interval as a duration.
func (c FormConfig) AutofillDelay() time.Duration {
	return time.Duration(c.AutofillDelayMs) * time.Millisecond
}

// Build loads configuration from an optional config file, flag overrides and
// a .env file when present. Flag values win over file values, which win over
// the defaults. Without an explicit cfgFile a missing config.yaml is not an
// error.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine; tokens may come from the environment itself.
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("settleup.base_url", "https://settle-up-live.firebaseio.com")
	v.SetDefault("settleup.group_name", "")
	v.SetDefault("ynab.token_env", "YNAB_TOKEN")
	v.SetDefault("settleup.token_env", "SETTLEUP_TOKEN")
	v.SetDefault("form.default_category_symbol", "❓")
	v.SetDefault("form.default_swile_amount_milliunits", int64(-25000))
	v.SetDefault("form.autofill_delay_ms", 300)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
