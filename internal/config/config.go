// Package config provides configuration management for the dashboard application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"kabu-dashboard/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogFileConfig   `mapstructure:"log"`
}

// DataConfig holds data directory configuration.
type DataConfig struct {
	Dir string `mapstructure:"dir"` // root of the per-ticker CSV tree
}

// CacheConfig holds cache TTL configuration.
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`        // per-artifact cache
	SectorTTL time.Duration `mapstructure:"sector_ttl"` // sector aggregate cache
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DevMode      bool          `mapstructure:"dev_mode"`
}

// SchedulerConfig holds background job configuration.
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SectorSchedule string `mapstructure:"sector_schedule"` // cron spec for the sector warmup job
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// LogFileConfig holds logging configuration.
type LogFileConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/kabu-dashboard"
	}
	return filepath.Join(home, ".config", "kabu-dashboard")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "output",
		},
		Cache: CacheConfig{
			TTL:       time.Hour,
			SectorTTL: 30 * time.Minute,
		},
		Server: ServerConfig{
			Port:         8087,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			SectorSchedule: "@every 30m",
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
		},
		Log: LogFileConfig{
			Level:      "info",
			Console:    true,
			File:       true,
			FilePath:   filepath.Join(DefaultConfigDir(), "logs", "kabu.log"),
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A missing config file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("KABU")
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data.dir", cfg.Data.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.sector_ttl", cfg.Cache.SectorTTL)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.dev_mode", cfg.Server.DevMode)
	v.SetDefault("scheduler.enabled", cfg.Scheduler.Enabled)
	v.SetDefault("scheduler.sector_schedule", cfg.Scheduler.SectorSchedule)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.console", cfg.Log.Console)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.file_path", cfg.Log.FilePath)
	v.SetDefault("log.max_size", cfg.Log.MaxSize)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age", cfg.Log.MaxAge)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "data.dir must not be empty")
	}
	if c.Cache.TTL <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.SectorTTL <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "cache.sector_ttl must be positive, got %v", c.Cache.SectorTTL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Wrapf(errors.ErrConfigInvalid, "server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// Save writes the current configuration to the config directory.
func (c *Config) Save(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	v := viper.New()
	v.Set("data.dir", c.Data.Dir)
	v.Set("cache.ttl", c.Cache.TTL.String())
	v.Set("cache.sector_ttl", c.Cache.SectorTTL.String())
	v.Set("server.port", c.Server.Port)
	v.Set("server.read_timeout", c.Server.ReadTimeout.String())
	v.Set("server.write_timeout", c.Server.WriteTimeout.String())
	v.Set("server.dev_mode", c.Server.DevMode)
	v.Set("scheduler.enabled", c.Scheduler.Enabled)
	v.Set("scheduler.sector_schedule", c.Scheduler.SectorSchedule)
	v.Set("ui.color_enabled", c.UI.ColorEnabled)
	v.Set("ui.date_format", c.UI.DateFormat)
	v.Set("log.level", c.Log.Level)
	v.Set("log.console", c.Log.Console)
	v.Set("log.file", c.Log.File)
	v.Set("log.file_path", c.Log.FilePath)
	v.Set("log.max_size", c.Log.MaxSize)
	v.Set("log.max_backups", c.Log.MaxBackups)
	v.Set("log.max_age", c.Log.MaxAge)

	path := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// String returns a printable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("data.dir=%s cache.ttl=%v sector.ttl=%v server.port=%d",
		c.Data.Dir, c.Cache.TTL, c.Cache.SectorTTL, c.Server.Port)
}
