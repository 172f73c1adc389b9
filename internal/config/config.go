package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/compozy/sprint-branches/internal/domain"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "sprint-branches"
	envPrefix  = "SPRINT_BRANCHES"
)

type Config struct {
	Owner                  string        `mapstructure:"owner"`
	Token                  string        `mapstructure:"token"`
	Repositories           []string      `mapstructure:"repositories"`
	Branches               []string      `mapstructure:"branches"`
	BranchFrom             string        `mapstructure:"branchFrom"`
	SuffixSprintNumber     string        `mapstructure:"suffixSprintNumber"`
	PrevSuffixSprintNumber string        `mapstructure:"prevSuffixSprintNumber"`
	DeleteBranches         *bool         `mapstructure:"deleteBranches"`
	APIURL                 string        `mapstructure:"apiUrl"`
	MatchMode              string        `mapstructure:"matchMode"`
	DryRun                 bool          `mapstructure:"dryRun"`
	ReportDir              string        `mapstructure:"reportDir"`
	LogLevel               string        `mapstructure:"logLevel"`
	LogFormat              string        `mapstructure:"logFormat"`
	Timeout                time.Duration `mapstructure:"timeout"`
}

// ValidationError reports a missing or invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Message)
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		MatchMode: string(domain.MatchModeExact),
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Validate checks required fields in a fixed order and returns the first failure.
func (c *Config) Validate() error {
	if len(nonBlank(c.Repositories)) == 0 {
		return &ValidationError{Field: "repositories", Message: "you need to add the repositories"}
	}
	if len(nonBlank(c.Branches)) == 0 {
		return &ValidationError{Field: "branches", Message: "you need to add the branches"}
	}
	if strings.TrimSpace(c.Token) == "" {
		return &ValidationError{Field: "token", Message: "you need to add a GitHub token"}
	}
	if strings.TrimSpace(c.BranchFrom) == "" {
		return &ValidationError{Field: "branchFrom", Message: "you need to add a branch to create from"}
	}
	if strings.TrimSpace(c.Owner) == "" {
		return &ValidationError{Field: "owner", Message: "you need to add an owner"}
	}
	if err := c.validateBranchNames(); err != nil {
		return err
	}
	if _, err := domain.ParseMatchMode(c.MatchMode); err != nil {
		return &ValidationError{Field: "matchMode", Message: err.Error()}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "logLevel", Message: fmt.Sprintf("unsupported log level: %s", c.LogLevel)}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "console", "structured":
	default:
		return &ValidationError{Field: "logFormat", Message: fmt.Sprintf("unsupported log format: %s", c.LogFormat)}
	}
	if c.Timeout < 0 {
		return &ValidationError{Field: "timeout", Message: "timeout cannot be negative"}
	}
	return nil
}

// validateBranchNames checks the sprint suffixes and every branch name the run can touch.
func (c *Config) validateBranchNames() error {
	if err := domain.ValidateSprintSuffix(c.SuffixSprintNumber); err != nil {
		return &ValidationError{Field: "suffixSprintNumber", Message: err.Error()}
	}
	if err := domain.ValidateSprintSuffix(c.PrevSuffixSprintNumber); err != nil {
		return &ValidationError{Field: "prevSuffixSprintNumber", Message: err.Error()}
	}
	if err := domain.ValidateBranchName(strings.TrimSpace(c.BranchFrom)); err != nil {
		return &ValidationError{Field: "branchFrom", Message: err.Error()}
	}
	for _, branch := range nonBlank(c.Branches) {
		for _, suffix := range []string{c.SuffixSprintNumber, c.PrevSuffixSprintNumber} {
			if err := domain.ValidateBranchName(domain.SprintBranchName(branch, suffix)); err != nil {
				return &ValidationError{Field: "branches", Message: err.Error()}
			}
		}
	}
	return nil
}

// Options controls where LoadConfig looks for configuration.
type Options struct {
	Fs          afero.Fs
	ConfigFile  string
	SearchPaths []string
	Flags       *pflag.FlagSet
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"dry-run":    "dryRun",
	"match-mode": "matchMode",
	"report-dir": "reportDir",
	"log-level":  "logLevel",
	"log-format": "logFormat",
	"api-url":    "apiUrl",
	"timeout":    "timeout",
}

// LoadConfig reads the configuration file, environment and flags, then validates it.
func LoadConfig(opts Options) (*Config, error) {
	config, err := LoadSettings(opts)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadSettings reads configuration like LoadConfig but skips validation, for
// commands that only need a subset of the settings.
func LoadSettings(opts Options) (*Config, error) {
	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}
	v.SetConfigName(configName)
	searchPaths := opts.SearchPaths
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "$HOME/.config/sprint-branches"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	}
	// Configure environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", "GITHUB_TOKEN", envPrefix+"_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}
	if err := v.BindEnv("owner", "GITHUB_OWNER", envPrefix+"_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind owner env: %w", err)
	}
	if opts.Flags != nil {
		for flagName, key := range flagKeys {
			flag := opts.Flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}
	defaults := DefaultConfig()
	v.SetDefault("matchMode", defaults.MatchMode)
	v.SetDefault("logLevel", defaults.LogLevel)
	v.SetDefault("logFormat", defaults.LogFormat)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || opts.ConfigFile != "" {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	config.Repositories = nonBlank(config.Repositories)
	config.Branches = nonBlank(config.Branches)
	return &config, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
