// Package config loads diesel configuration from files, .env files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem configuration and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	// EnvPrefix prefixes every environment variable, e.g. DIESEL_LOG_LEVEL.
	EnvPrefix = "DIESEL"
	// FileName is the config file name without extension.
	FileName = ".diesel"
)

// Config holds the application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// DatabaseConfig describes the database and its pool.
type DatabaseConfig struct {
	Provider            string        `mapstructure:"provider" validate:"required,oneof=sqlite sqlite3 file postgres postgresql mysql mariadb"`
	URL                 string        `mapstructure:"url" validate:"required"`
	ConnectTimeout      time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`
	MaxOpenConns        int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime     time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval" validate:"gte=0"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// TelemetryConfig selects the telemetry adapter.
type TelemetryConfig struct {
	Type        string  `mapstructure:"type" validate:"oneof=noop prometheus opentelemetry"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.provider", "sqlite")
	v.SetDefault("database.url", ":memory:")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.health_check_interval", time.Minute)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)
	v.SetDefault("log.file", "")
	v.SetDefault("telemetry.type", "noop")
	v.SetDefault("telemetry.service_name", "diesel")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.sample_rate", 0.0)
}

// LoadConfig loads configuration. An explicit file must exist; otherwise
// .diesel.yaml is searched in the working directory, the home directory and
// ~/.config/diesel, and a missing file is not an error.
//
// Precedence, highest first: DIESEL_* variables, DATABASE_URL (for
// database.url only), the config file, defaults. .env and .env.local are
// loaded into the environment first; .env never overrides a variable that
// is already set, .env.local does.
func LoadConfig(file string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "diesel"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Warnings lists settings that load fine but will not do what the user
// likely expects.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Telemetry.Type == "prometheus" && c.Telemetry.Endpoint == "" {
		warnings = append(warnings, "telemetry.type is prometheus but telemetry.endpoint is empty; metrics will not be written")
	}
	return warnings
}

// SaveConfig writes the database, log and telemetry settings to
// ~/.config/diesel.
func SaveConfig(cfg *Config) (string, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("database.provider", cfg.Database.Provider)
	v.Set("database.url", cfg.Database.URL)
	v.Set("database.connect_timeout", cfg.Database.ConnectTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("telemetry.type", cfg.Telemetry.Type)
	v.Set("telemetry.endpoint", cfg.Telemetry.Endpoint)

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(home, ".config", "diesel")
	if err := AppFs.MkdirAll(configPath, 0o755); err != nil {
		return "", err
	}

	configFile := filepath.Join(configPath, FileName+".yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", err
	}
	return configFile, nil
}

func loadDotEnv() error {
	if err := applyEnvFile(".env", false); err != nil {
		return err
	}
	return applyEnvFile(".env.local", true)
}

func applyEnvFile(name string, override bool) error {
	data, err := afero.ReadFile(AppFs, name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for key, value := range env {
		if _, set := os.LookupEnv(key); set && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
