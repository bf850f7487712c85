package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/models"
)

// LocationConfig is the configured coordinate fallback and display labels.
type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`
	City      string  `mapstructure:"city" yaml:"city"`
	Country   string  `mapstructure:"country" yaml:"country"`
}

// NotificationConfig holds reminder preferences.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Config is the top-level application configuration, loaded once at startup.
// Calculation parameters are deployment policy, not runtime-mutable state.
type Config struct {
	Location      LocationConfig               `mapstructure:"location" yaml:"location"`
	Calculation   models.CalculationParameters `mapstructure:"calculation" yaml:"calculation"`
	Notifications NotificationConfig           `mapstructure:"notifications" yaml:"notifications"`
	Timezone      string                       `mapstructure:"timezone" yaml:"timezone"`
	Debug         bool                         `mapstructure:"debug" yaml:"debug"`
}

// Coordinate returns the configured coordinate, or the zero value when unset.
func (c *Config) Coordinate() models.Coordinate {
	return models.Coordinate{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
}

// DefaultConfigDir returns the configuration directory, honoring a leading ~.
func DefaultConfigDir() string {
	return ExpandPath(constants.DefaultConfigDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calculation.method", "MWL")
	v.SetDefault("calculation.madhab", string(models.MadhabShafi))
	v.SetDefault("calculation.high_latitude_rule", string(models.HighLatMiddleOfNight))
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("timezone", "Local")
}

// Load reads configuration from the given YAML file path. A missing file
// yields the default configuration rather than an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Calculation.Madhab != models.MadhabHanafi {
		cfg.Calculation.Madhab = models.MadhabShafi
	}

	return &cfg, nil
}

// Save writes the configuration back to the given YAML file path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("location.latitude", cfg.Location.Latitude)
	v.Set("location.longitude", cfg.Location.Longitude)
	v.Set("location.city", cfg.Location.City)
	v.Set("location.country", cfg.Location.Country)
	v.Set("calculation.method", cfg.Calculation.Method)
	v.Set("calculation.madhab", string(cfg.Calculation.Madhab))
	v.Set("calculation.high_latitude_rule", string(cfg.Calculation.HighLatitudeRule))
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("timezone", cfg.Timezone)
	v.Set("debug", cfg.Debug)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
