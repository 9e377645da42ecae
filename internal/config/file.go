package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of an optional config file. Every field is a
// pointer so that absent keys leave the environment-derived value alone.
type fileConfig struct {
	Port          *int    `yaml:"port"`
	Env           *string `yaml:"env"`
	Debug         *bool   `yaml:"debug"`
	DatabaseURL   *string `yaml:"database_url"`
	DatabaseName  *string `yaml:"database_name"`
	SQLitePath    *string `yaml:"sqlite_path"`
	AMQPURL       *string `yaml:"amqp_url"`
	SessionMaxAge *int    `yaml:"session_max_age"`
	CascadeDelete *bool   `yaml:"cascade_delete"`

	RateLimit struct {
		RequestsPerMinute *int `yaml:"requests_per_minute"`
	} `yaml:"rate_limit"`
}

// applyFile overlays values from a YAML file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if f.Port != nil {
		cfg.Port = *f.Port
	}
	if f.Env != nil {
		cfg.Env = *f.Env
	}
	if f.Debug != nil {
		cfg.Debug = *f.Debug
	}
	if f.DatabaseURL != nil {
		cfg.DatabaseURL = *f.DatabaseURL
	}
	if f.DatabaseName != nil {
		cfg.DatabaseName = *f.DatabaseName
	}
	if f.SQLitePath != nil {
		cfg.SQLitePath = *f.SQLitePath
	}
	if f.AMQPURL != nil {
		cfg.AMQPURL = *f.AMQPURL
	}
	if f.SessionMaxAge != nil {
		cfg.SessionMaxAge = *f.SessionMaxAge
	}
	if f.CascadeDelete != nil {
		cfg.CascadeDelete = *f.CascadeDelete
	}
	if f.RateLimit.RequestsPerMinute != nil {
		cfg.RequestsPerMinute = *f.RateLimit.RequestsPerMinute
	}
	return nil
}
