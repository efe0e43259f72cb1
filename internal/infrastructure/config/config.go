package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for deviceutil.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Validation ValidationConfig `yaml:"validation"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SourceConfig contains device file settings.
type SourceConfig struct {
	// Path is the device file used when none is given on the command line.
	Path string `yaml:"path"`
}

// ValidationConfig contains the tunable parts of the device rule set.
type ValidationConfig struct {
	// AddressFormat is "ip" (IPv4/IPv6 literal) or "hostname" (letters, digits, dots).
	AddressFormat string `yaml:"address_format"`

	// SerialLength is "exact" (16 characters) or "max" (1 to 16 characters).
	SerialLength string `yaml:"serial_length"`

	// RequireModelName makes the model name a required field.
	RequireModelName bool `yaml:"require_model_name"`

	// DuplicateAddress is "reject" or "warn".
	DuplicateAddress string `yaml:"duplicate_address"`
}

// DatabaseConfig contains SQLite settings for SQLite device files.
type DatabaseConfig struct {
	BusyTimeout int `yaml:"busy_timeout"` // seconds
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Recognised values for the enumerated settings.
var (
	addressFormats    = []string{"ip", "hostname"}
	serialLengthRules = []string{"exact", "max"}
	duplicatePolicies = []string{"reject", "warn"}
	logLevels         = []string{"debug", "info", "warn", "warning", "error"}
	logFormats        = []string{"json", "text"}
	logOutputs        = []string{"stdout", "stderr"}
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DEVICEUTIL_SECTION_KEY
// For example: DEVICEUTIL_SOURCE_PATH, DEVICEUTIL_VALIDATION_ADDRESS_FORMAT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Defaults returns the default configuration with environment variable
// overrides applied. It is used when no config file is given.
func Defaults() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Validation: ValidationConfig{
			AddressFormat:    "ip",
			SerialLength:     "exact",
			RequireModelName: false,
			DuplicateAddress: "reject",
		},
		Database: DatabaseConfig{
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DEVICEUTIL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Source
	if v := os.Getenv("DEVICEUTIL_SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}

	// Validation
	if v := os.Getenv("DEVICEUTIL_VALIDATION_ADDRESS_FORMAT"); v != "" {
		cfg.Validation.AddressFormat = v
	}
	if v := os.Getenv("DEVICEUTIL_VALIDATION_SERIAL_LENGTH"); v != "" {
		cfg.Validation.SerialLength = v
	}
	if v := os.Getenv("DEVICEUTIL_VALIDATION_REQUIRE_MODEL_NAME"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Validation.RequireModelName = b
		}
	}
	if v := os.Getenv("DEVICEUTIL_VALIDATION_DUPLICATE_ADDRESS"); v != "" {
		cfg.Validation.DuplicateAddress = v
	}

	// Database
	if v := os.Getenv("DEVICEUTIL_DATABASE_BUSY_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.BusyTimeout = n
		}
	}

	// Logging
	if v := os.Getenv("DEVICEUTIL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DEVICEUTIL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for errors.
// Every problem is reported, not just the first.
func (c *Config) Validate() error {
	var errs []string

	if !oneOf(c.Validation.AddressFormat, addressFormats) {
		errs = append(errs, "validation.address_format must be one of: "+strings.Join(addressFormats, ", "))
	}
	if !oneOf(c.Validation.SerialLength, serialLengthRules) {
		errs = append(errs, "validation.serial_length must be one of: "+strings.Join(serialLengthRules, ", "))
	}
	if !oneOf(c.Validation.DuplicateAddress, duplicatePolicies) {
		errs = append(errs, "validation.duplicate_address must be one of: "+strings.Join(duplicatePolicies, ", "))
	}

	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	if !oneOf(strings.ToLower(c.Logging.Level), logLevels) {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	if !oneOf(strings.ToLower(c.Logging.Format), logFormats) {
		errs = append(errs, "logging.format must be one of: "+strings.Join(logFormats, ", "))
	}
	if !oneOf(strings.ToLower(c.Logging.Output), logOutputs) {
		errs = append(errs, "logging.output must be one of: "+strings.Join(logOutputs, ", "))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetBusyTimeout returns the SQLite busy timeout as a Duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Second
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
