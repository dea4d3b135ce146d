package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultListenAddr           = ":8080"
	DefaultDataDir              = "signup_data"
	DefaultTimezone             = "America/New_York"
	DefaultWindowDays           = 31
	DefaultRemoteTimeoutSeconds = 10
)

// defaultOperatorRange reads the whole first worksheet when no tab is named.
const defaultOperatorRange = "A1:ZZ"

// Config represents the application configuration
type Config struct {
	// ListenAddr is the HTTP bind address for the signup server.
	ListenAddr string `yaml:"listenAddr,omitempty"`
	// DataDir holds the local signup partition files.
	DataDir string `yaml:"dataDir,omitempty"`
	// Timezone is the IANA zone the depot operates in. All window maths
	// and signup timestamps use it.
	Timezone   string `yaml:"timezone,omitempty"`
	WindowDays int    `yaml:"windowDays,omitempty" validate:"omitempty,min=1"`

	// SheetsEnabled turns on the Google Sheets mirror and roster.
	SheetsEnabled bool `yaml:"sheetsEnabled,omitempty"`
	// SignupSheetID is the spreadsheet holding the "All Signups" log.
	SignupSheetID string `yaml:"signupSheetID,omitempty" validate:"required_if=SheetsEnabled true"`
	// OperatorSheetID is the spreadsheet holding the operator roster.
	OperatorSheetID string `yaml:"operatorSheetID,omitempty" validate:"required_if=SheetsEnabled true"`
	// OperatorsTab names the roster worksheet; empty means the first tab.
	OperatorsTab string `yaml:"operatorsTab,omitempty"`
	// DailySheetsEnabled also mirrors each signup onto the per-date
	// spreadsheet named after the work date, when one exists.
	DailySheetsEnabled   bool `yaml:"dailySheetsEnabled,omitempty"`
	RemoteTimeoutSeconds int  `yaml:"remoteTimeoutSeconds,omitempty" validate:"omitempty,min=1"`

	// BlackoutRules are RFC 5545 recurrence strings naming dates that are
	// never open for signup, e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25".
	BlackoutRules []string `yaml:"blackoutRules,omitempty"`

	// PostgresURL switches signup storage from local JSON files to
	// PostgreSQL when set.
	PostgresURL string `yaml:"postgresURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="prod" will look for "signup_config.prod.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.WindowDays == 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.RemoteTimeoutSeconds == 0 {
		c.RemoteTimeoutSeconds = DefaultRemoteTimeoutSeconds
	}
}

// Validate validates the configuration struct, the timezone and the
// blackout rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	for i, rule := range cfg.BlackoutRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in blackoutRules[%d]: %w", i, err)
		}
	}

	return nil
}

// Location resolves the configured timezone. Validate has already checked
// it, so this only fails on a config that skipped validation.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RemoteTimeout bounds each remote mirror call.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// OperatorRange is the A1 range the roster is read from.
func (c *Config) OperatorRange() string {
	if c.OperatorsTab != "" {
		return c.OperatorsTab
	}
	return defaultOperatorRange
}

// findConfigFile searches for signup_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "signup_config.prod.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "signup_config.yaml"
	if env != "" {
		configFileName = "signup_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
