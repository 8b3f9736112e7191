package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "DRAFTMATE"

// DefaultEnvFiles are the .env locations tried by Load, first match wins.
var DefaultEnvFiles = []string{".env", "../.env"}

var defaults = map[string]any{
	"logger.level":        "",
	"logger.format":       "",
	"logger.output":       "",
	"logger.file":         "",
	"logger.time_field":   "",
	"logger.time_format":  "",
	"logger.service_name": "",
	"logger.version":      "",
	"logger.env":          "prod",
	"logger.with_caller":  false,

	"lcu.lockfile_path":   "",
	"lcu.poll_interval":   "1s",
	"lcu.request_timeout": "10s",

	"data.cache_path": "",

	"language": "en",

	"pipeline.show_rank_in_game_info": true,
	"pipeline.filter_ranked_history":  true,

	"automation.auto_accept_pick_order_swap": false,
	"automation.auto_select_champion":        false,
	"automation.auto_select_champion_name":   "",
	"automation.auto_accept_champion_trade":  false,
	"automation.auto_complete_on_timeout":    false,
	"automation.auto_ban":                    false,
	"automation.auto_ban_champion_name":      "",
	"automation.auto_ban_delay":              "8s",
	"automation.avoid_teammate_intent":       true,
	"automation.auto_select_skin_random":     false,
	"automation.time_unit":                   "1s",
}

// Load reads path (optional; yaml, json or toml) and applies environment
// overrides such as DRAFTMATE_AUTOMATION_AUTO_BAN=true. A .env file from
// DefaultEnvFiles is loaded first without overriding variables already set.
func Load(path string) (*Config, error) {
	LoadEnvFile(DefaultEnvFiles...)

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads the first readable file in paths and returns it, or ""
// when none was found.
func LoadEnvFile(paths ...string) string {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks field constraints. Logger settings are validated when the
// logger is built.
func (c *Config) Validate() error {
	v := validator.New()
	for _, s := range []any{c.LCU, c.Data, c.Pipeline, c.Automation} {
		if err := v.Struct(s); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}
	}
	if err := v.Var(c.Language, "oneof=en zh"); err != nil {
		return fmt.Errorf("config validation error: language %q: %w", c.Language, err)
	}
	return nil
}
