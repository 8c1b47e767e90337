// Package config loads sheetfolio settings from defaults, a YAML file and the
// environment, in that order.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/Zachkp/sheetfolio/internal/filter"
	"github.com/Zachkp/sheetfolio/internal/loader"
	"github.com/Zachkp/sheetfolio/internal/sheet"
	"github.com/Zachkp/sheetfolio/web"
)

// EnvPrefix prefixes every environment override; "__" separates levels,
// e.g. SHEETFOLIO_SOURCE__CACHE_TTL=30s.
const EnvPrefix = "SHEETFOLIO_"

const (
	defaultSpreadsheetID = "1ASSXeZykE583Me-jSFIjATUfGSsufDyVqY5hF530bn8"
	defaultSheetName     = "Certificates Manager"
)

// Config is the full application configuration.
type Config struct {
	Source     SourceConfig      `koanf:"source"`
	Columns    sheet.Columns     `koanf:"columns"`
	Containers loader.Containers `koanf:"containers"`
	Filter     filter.Options    `koanf:"filter"`
	Server     ServerConfig      `koanf:"server"`
	Profile    web.Profile       `koanf:"profile"`
	Log        LogConfig         `koanf:"log"`
}

// SourceConfig selects where rows come from. SQLitePath wins over the HTTP
// endpoint; URL wins over SpreadsheetID/SheetName.
type SourceConfig struct {
	URL           string        `koanf:"url" validate:"omitempty,url"`
	SpreadsheetID string        `koanf:"spreadsheet_id"`
	SheetName     string        `koanf:"sheet_name"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	SQLitePath    string        `koanf:"sqlite_path"`
	SQLiteTable   string        `koanf:"sqlite_table"`
}

// Endpoint returns the HTTP endpoint rows are fetched from.
func (s SourceConfig) Endpoint() string {
	if s.URL != "" {
		return s.URL
	}
	if s.SpreadsheetID == "" || s.SheetName == "" {
		return ""
	}
	return sheet.OpenSheetURL(s.SpreadsheetID, s.SheetName)
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string `koanf:"port" validate:"required,numeric"`
	Mode string `koanf:"mode" validate:"omitempty,oneof=debug release test"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			SpreadsheetID: defaultSpreadsheetID,
			SheetName:     defaultSheetName,
			Timeout:       15 * time.Second,
			CacheTTL:      time.Minute,
			SQLiteTable:   "rows",
		},
		Columns:    sheet.DefaultColumns(),
		Containers: loader.DefaultContainers(),
		Filter:     filter.DefaultOptions(),
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Profile: web.DefaultProfile(),
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty or absent), then overlays environment
// variables. PORT and LOG_LEVEL are honoured as well.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "reading config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "accessing config %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "loading env overrides")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	if k.Exists("profile.roles") {
		cfg.Profile.Roles = k.Strings("profile.roles")
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Port = port
	}
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.Log.Level = level
	}
	cfg.Columns = cfg.Columns.Trimmed()

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate checks field constraints and that some source is configured.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Source.SQLitePath == "" && c.Source.Endpoint() == "" {
		return errors.New("invalid config: set source.url, source.spreadsheet_id and source.sheet_name, or source.sqlite_path")
	}
	if c.Source.SQLitePath != "" && c.Source.SQLiteTable == "" {
		return errors.New("invalid config: source.sqlite_table is required with source.sqlite_path")
	}
	return nil
}
