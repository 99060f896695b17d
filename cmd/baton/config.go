package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/baton/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify baton configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/baton/config.yaml
Project-specific overrides can be placed in .baton.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s (%s)\n", config.MaskAPIKey(cfg.Anthropic.APIKey), config.GetAPIKeySource(cfg))
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orUnset(cfg.Anthropic.AWSRegion))
	fmt.Printf("anthropic.aws_profile: %s\n", orUnset(cfg.Anthropic.AWSProfile))
	fmt.Printf("defaults.budget: %.1f\n", cfg.Defaults.Budget)
	fmt.Printf("defaults.compliance_level: %s\n", cfg.Defaults.ComplianceLevel)
	fmt.Printf("defaults.mode: %s\n", cfg.Defaults.Mode)
	fmt.Printf("retry.max_attempts: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("retry.backoff_base: %s\n", cfg.Retry.BackoffBase)
	fmt.Printf("execute.task_timeout: %s\n", cfg.Execute.TaskTimeout)
	fmt.Printf("execute.concurrency: %d\n", cfg.Execute.Concurrency)
	fmt.Printf("store.path: %s\n", orUnset(cfg.Store.Path))
	fmt.Printf("store.registry_file: %s\n", orUnset(cfg.Store.RegistryFile))
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return orUnset(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orUnset(cfg.Anthropic.AWSProfile), nil
	case "defaults.budget":
		return strconv.FormatFloat(cfg.Defaults.Budget, 'f', 1, 64), nil
	case "defaults.compliance_level":
		return cfg.Defaults.ComplianceLevel, nil
	case "defaults.mode":
		return cfg.Defaults.Mode, nil
	case "retry.max_attempts":
		return strconv.Itoa(cfg.Retry.MaxAttempts), nil
	case "retry.backoff_base":
		return cfg.Retry.BackoffBase.String(), nil
	case "execute.task_timeout":
		return cfg.Execute.TaskTimeout.String(), nil
	case "execute.concurrency":
		return strconv.Itoa(cfg.Execute.Concurrency), nil
	case "store.path":
		return orUnset(cfg.Store.Path), nil
	case "store.registry_file":
		return orUnset(cfg.Store.RegistryFile), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "defaults.budget":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for budget: %w", err)
		}
		cfg.Defaults.Budget = f
	case "defaults.compliance_level":
		cfg.Defaults.ComplianceLevel = strings.ToUpper(value)
	case "defaults.mode":
		cfg.Defaults.Mode = strings.ToUpper(value)
	case "retry.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_attempts: %w", err)
		}
		cfg.Retry.MaxAttempts = n
	case "retry.backoff_base":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for backoff_base: %w", err)
		}
		cfg.Retry.BackoffBase = d
	case "execute.task_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for task_timeout: %w", err)
		}
		cfg.Execute.TaskTimeout = d
	case "execute.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for concurrency: %w", err)
		}
		cfg.Execute.Concurrency = n
	case "store.path":
		cfg.Store.Path = value
	case "store.registry_file":
		cfg.Store.RegistryFile = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
