// Package config handles configuration loading and management for baton.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for baton.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Execute   ExecuteConfig   `mapstructure:"execute"`
	Store     StoreConfig     `mapstructure:"store"`
}

// AnthropicConfig holds Anthropic API settings for live execution.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// DefaultsConfig holds default values for plan creation and execution.
type DefaultsConfig struct {
	// Budget is the credit grant applied when none is given on the CLI.
	Budget float64 `mapstructure:"budget"`
	// ComplianceLevel is the default compliance level (BASIC, ENTERPRISE, GOVERNMENT).
	ComplianceLevel string `mapstructure:"compliance_level"`
	// Mode is the default orchestration mode (AUTO, GUIDED, MANUAL).
	Mode string `mapstructure:"mode"`
}

// RetryConfig tunes the executor retry loop.
type RetryConfig struct {
	// MaxAttempts is the total invocations per task, including the first.
	MaxAttempts int `mapstructure:"max_attempts"`
	// BackoffBase is the delay before the first retry; doubles per retry.
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// ExecuteConfig tunes plan execution.
type ExecuteConfig struct {
	// TaskTimeout bounds one executor invocation. Zero disables it.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// Concurrency is the maximum number of tasks in flight.
	Concurrency int `mapstructure:"concurrency"`
}

// StoreConfig holds plan persistence settings.
type StoreConfig struct {
	// Path is the SQLite database file. Empty uses the XDG default.
	Path string `mapstructure:"path"`
	// RegistryFile optionally overrides task-type profiles.
	RegistryFile string `mapstructure:"registry_file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.baton.yaml in current directory or parent)
// 3. User config (~/.config/baton/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("defaults.budget", cfg.Defaults.Budget)
	v.Set("defaults.compliance_level", cfg.Defaults.ComplianceLevel)
	v.Set("defaults.mode", cfg.Defaults.Mode)
	v.Set("retry.max_attempts", cfg.Retry.MaxAttempts)
	v.Set("retry.backoff_base", cfg.Retry.BackoffBase.String())
	v.Set("execute.task_timeout", cfg.Execute.TaskTimeout.String())
	v.Set("execute.concurrency", cfg.Execute.Concurrency)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.registry_file", cfg.Store.RegistryFile)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)

	v.SetDefault("defaults.budget", 100.0)
	v.SetDefault("defaults.compliance_level", "BASIC")
	v.SetDefault("defaults.mode", "AUTO")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_base", "1s")

	v.SetDefault("execute.task_timeout", "5m")
	v.SetDefault("execute.concurrency", 1)

	v.SetDefault("store.path", "")
	v.SetDefault("store.registry_file", "")
}

// getUserConfigDir returns the XDG config directory for baton.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "baton")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "baton")
	}
	return filepath.Join(home, ".config", "baton")
}

// findProjectConfig searches for .baton.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".baton.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Budget:          100,
			ComplianceLevel: "BASIC",
			Mode:            "AUTO",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BackoffBase: time.Second,
		},
		Execute: ExecuteConfig{
			TaskTimeout: 5 * time.Minute,
			Concurrency: 1,
		},
	}
}
