// Package config loads and saves tripcost preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config holds all tripcost configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Output     OutputConfig     `toml:"output"`
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds dataset location and trip defaults.
type GeneralConfig struct {
	Dataset          string `toml:"dataset,omitempty"`
	DefaultDays      int    `toml:"default_days"`
	DefaultTravelers int    `toml:"default_travelers"`
	DefaultSeason    string `toml:"default_season"`
	Currency         string `toml:"currency"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// OutputConfig selects how non-interactive commands print results.
type OutputConfig struct {
	Format string `toml:"format"`
}

// LogConfig holds the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	DebounceMs int    `toml:"debounce_ms"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays:      7,
			DefaultTravelers: 2,
			DefaultSeason:    "Spring",
			Currency:         "€",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Output: OutputConfig{
			Format: FormatTable,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8787",
			DebounceMs: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripcost")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Values from TRIPCOST_* environment variables, including ones set in a .env
// file in the working or config directory, take precedence over the file.
func Load() (Config, error) {
	loadDotEnv()
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDotEnv loads the first .env file found. Variables already set in the
// environment are never overridden.
func loadDotEnv() {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(ConfigDir(), ".env"))

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TRIPCOST_DATASET"); v != "" {
		cfg.General.Dataset = v
	}
	if v := os.Getenv("TRIPCOST_CURRENCY"); v != "" {
		cfg.General.Currency = v
	}
	if v := os.Getenv("TRIPCOST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRIPCOST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TRIPCOST_DEFAULT_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing TRIPCOST_DEFAULT_DAYS: %w", err)
		}
		cfg.General.DefaultDays = n
	}
	return nil
}

// Validate checks values that would make every estimate fail.
func (c Config) Validate() error {
	if c.General.DefaultDays < 1 {
		return fmt.Errorf("general.default_days must be at least 1, got %d", c.General.DefaultDays)
	}
	if c.General.DefaultTravelers < 1 {
		return fmt.Errorf("general.default_travelers must be at least 1, got %d", c.General.DefaultTravelers)
	}
	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be table, json or yaml, got %q", c.Output.Format)
	}
	if c.Server.DebounceMs < 0 {
		return fmt.Errorf("server.debounce_ms must not be negative, got %d", c.Server.DebounceMs)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
