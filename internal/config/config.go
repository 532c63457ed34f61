package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const envPrefix = "LAZYDIARY"

type Config struct {
	DBPath       string `toml:"db_path" mapstructure:"db_path"`
	WebEnabled   bool   `toml:"web_enabled" mapstructure:"web_enabled"`
	WebPort      int    `toml:"web_port" mapstructure:"web_port"`
	DefaultDiary int64  `toml:"default_diary" mapstructure:"default_diary"`
	LogLevel     string `toml:"log_level" mapstructure:"log_level"`
	LogFormat    string `toml:"log_format" mapstructure:"log_format"`
	Tracing      bool   `toml:"tracing" mapstructure:"tracing"`
}

func Default() Config {
	return Config{
		WebPort:   8080,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazydiary", "config.toml"), nil
}

// DefaultDBPath places the database next to the config file.
func DefaultDBPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "lazydiary.db")
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the TOML file at path, when present, and applies LAZYDIARY_*
// environment overrides on top of it.
func Load(path string) (Config, error) {
	v := newViper()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c Config) Validate() error {
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web_port %d", c.WebPort)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("web_enabled", defaults.WebEnabled)
	v.SetDefault("web_port", defaults.WebPort)
	v.SetDefault("default_diary", defaults.DefaultDiary)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("tracing", defaults.Tracing)
	return v
}
