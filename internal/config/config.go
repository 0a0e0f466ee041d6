package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the application configuration
type Config struct {
	Library LibraryConfig `json:"library"`
	Import  ImportConfig  `json:"import"`
	Log     LogConfig     `json:"log"`
	Display DisplayConfig `json:"display"`
}

// LibraryConfig says where downloaded activities and the index live
type LibraryConfig struct {
	Dir      string `json:"dir"`
	Database string `json:"database"`
}

// ImportConfig holds settings for pulling activities from a source
type ImportConfig struct {
	SourceDir         string  `json:"source_dir"`
	LookbackDays      int     `json:"lookback_days"`
	Overwrite         bool    `json:"overwrite"`
	Workers           int     `json:"workers"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	ToConsole bool   `json:"to_console"`
	JSON      bool   `json:"json"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// Environment variables that take precedence over the file
const (
	EnvLibraryDir = "TCXUTIL_LIBRARY_DIR"
	EnvSourceDir  = "TCXUTIL_SOURCE_DIR"
	EnvLogLevel   = "TCXUTIL_LOG_LEVEL"
)

const dirName = ".tcxutil"

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Library: LibraryConfig{
			Dir:      filepath.Join("~", dirName, "activities"),
			Database: filepath.Join("~", dirName, "data.db"),
		},
		Import: ImportConfig{
			LookbackDays:      14,
			Workers:           4,
			RequestsPerSecond: 5,
			Burst:             1,
		},
		Log: LogConfig{
			Level:     "info",
			ToConsole: true,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
	}
}

// Load reads the configuration from ~/.tcxutil/config.json
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path, fills in defaults and applies
// environment overrides
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if cfg.Library.Dir, err = expandHome(cfg.Library.Dir); err != nil {
		return nil, err
	}
	if cfg.Library.Database, err = expandHome(cfg.Library.Database); err != nil {
		return nil, err
	}
	if cfg.Import.SourceDir, err = expandHome(cfg.Import.SourceDir); err != nil {
		return nil, err
	}
	if cfg.Log.File, err = expandHome(cfg.Log.File); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Library.Dir == "" {
		c.Library.Dir = defaults.Library.Dir
	}
	if c.Library.Database == "" {
		c.Library.Database = defaults.Library.Database
	}
	if c.Import.LookbackDays == 0 {
		c.Import.LookbackDays = defaults.Import.LookbackDays
	}
	if c.Import.Workers == 0 {
		c.Import.Workers = defaults.Import.Workers
	}
	if c.Import.RequestsPerSecond == 0 {
		c.Import.RequestsPerSecond = defaults.Import.RequestsPerSecond
	}
	if c.Import.Burst == 0 {
		c.Import.Burst = defaults.Import.Burst
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.ToConsole = true
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if c.Display.PaceUnit == "" {
		c.Display.PaceUnit = defaults.Display.PaceUnit
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLibraryDir); v != "" {
		c.Library.Dir = v
	}
	if v := os.Getenv(EnvSourceDir); v != "" {
		c.Import.SourceDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Save writes the configuration to ~/.tcxutil/config.json
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path
func SaveTo(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file at path if none exists.
// It reports whether a file was written.
func CreateExample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Import.SourceDir = filepath.Join("~", "Downloads", "garmin-export")

	if err := SaveTo(path, &example); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks that the config values are usable
func (c *Config) Validate() error {
	if c.Library.Dir == "" {
		return errors.New("library.dir is required")
	}
	if c.Library.Database == "" {
		return errors.New("library.database is required")
	}

	if c.Import.LookbackDays < 0 {
		return fmt.Errorf("import.lookback_days must not be negative, got %d", c.Import.LookbackDays)
	}
	if c.Import.Workers < 0 {
		return fmt.Errorf("import.workers must not be negative, got %d", c.Import.Workers)
	}
	if c.Import.RequestsPerSecond < 0 {
		return fmt.Errorf("import.requests_per_second must not be negative, got %v", c.Import.RequestsPerSecond)
	}
	if c.Import.Burst < 0 {
		return fmt.Errorf("import.burst must not be negative, got %d", c.Import.Burst)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	return nil
}

// Path returns the path to the default config file
func Path() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
