// Package config provides Viper-based configuration loading for the character generator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
)

// Catalogue drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverYAML     = "yaml"
)

// CatalogConfig selects where reference data is read from.
type CatalogConfig struct {
	// Driver is one of "postgres", "sqlite" or "yaml".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
	// YAMLPath is the dataset file or directory used by the yaml driver.
	YAMLPath string `mapstructure:"yaml_path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GeneratorConfig holds character generation settings.
type GeneratorConfig struct {
	// Seed selects a deterministic dice source; 0 uses crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// Sexes are the two labels a character's sex is drawn from.
	Sexes         []string `mapstructure:"sexes"`
	NoArmorLabel  string   `mapstructure:"no_armor_label"`
	UnarmedLabel  string   `mapstructure:"unarmed_label"`
	UnarmedDamage string   `mapstructure:"unarmed_damage"`
	// Concurrency bounds batch generation.
	Concurrency int `mapstructure:"concurrency"`
}

// Config is the top-level application configuration.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres driver is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateCatalog(c.Catalog); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Catalog.Driver == DriverPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGenerator(c.Generator); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCatalog(c CatalogConfig) error {
	switch c.Driver {
	case DriverPostgres:
		return nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("catalog.sqlite_path must not be empty for driver %q", c.Driver)
		}
		return nil
	case DriverYAML:
		if c.YAMLPath == "" {
			return fmt.Errorf("catalog.yaml_path must not be empty for driver %q", c.Driver)
		}
		return nil
	default:
		return fmt.Errorf("catalog.driver must be one of [postgres, sqlite, yaml], got %q", c.Driver)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGenerator(g GeneratorConfig) error {
	var errs []string
	if len(g.Sexes) != 2 {
		errs = append(errs, fmt.Sprintf("generator.sexes must list exactly 2 labels, got %d", len(g.Sexes)))
	}
	for i, s := range g.Sexes {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Sprintf("generator.sexes[%d] must not be empty", i))
		}
	}
	if g.NoArmorLabel == "" {
		errs = append(errs, "generator.no_armor_label must not be empty")
	}
	if g.UnarmedLabel == "" {
		errs = append(errs, "generator.unarmed_label must not be empty")
	}
	if !dice.Valid(g.UnarmedDamage) {
		errs = append(errs, fmt.Sprintf("generator.unarmed_damage must be a dice formula, got %q", g.UnarmedDamage))
	}
	if g.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("generator.concurrency must be >= 1, got %d", g.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with TTRPG_ prefix
	v.SetEnvPrefix("TTRPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.driver", DriverYAML)
	v.SetDefault("catalog.sqlite_path", "catalog.db")
	v.SetDefault("catalog.yaml_path", "content")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ttrpg")
	v.SetDefault("database.password", "ttrpg")
	v.SetDefault("database.name", "ttrpg")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.sexes", []string{"Male", "Female"})
	v.SetDefault("generator.no_armor_label", "No armor")
	v.SetDefault("generator.unarmed_label", "Unarmed")
	v.SetDefault("generator.unarmed_damage", "d1")
	v.SetDefault("generator.concurrency", 4)
}
