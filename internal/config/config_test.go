package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Defaults.Budget != 100 {
		t.Errorf("expected default budget 100, got %.2f", cfg.Defaults.Budget)
	}

	if cfg.Defaults.ComplianceLevel != "BASIC" {
		t.Errorf("expected default compliance level 'BASIC', got %q", cfg.Defaults.ComplianceLevel)
	}

	if cfg.Defaults.Mode != "AUTO" {
		t.Errorf("expected default mode 'AUTO', got %q", cfg.Defaults.Mode)
	}

	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default max_attempts 3, got %d", cfg.Retry.MaxAttempts)
	}

	if cfg.Retry.BackoffBase != time.Second {
		t.Errorf("expected default backoff_base 1s, got %v", cfg.Retry.BackoffBase)
	}

	if cfg.Execute.TaskTimeout != 5*time.Minute {
		t.Errorf("expected default task_timeout 5m, got %v", cfg.Execute.TaskTimeout)
	}

	if cfg.Execute.Concurrency != 1 {
		t.Errorf("expected default concurrency 1, got %d", cfg.Execute.Concurrency)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  use_bedrock: true
  aws_region: us-west-2
defaults:
  budget: 50
  compliance_level: ENTERPRISE
  mode: GUIDED
retry:
  max_attempts: 5
  backoff_base: 250ms
execute:
  task_timeout: 2m
  concurrency: 4
store:
  path: /tmp/baton-test.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.Defaults.Budget != 50 {
		t.Errorf("expected budget 50, got %.2f", cfg.Defaults.Budget)
	}

	if cfg.Defaults.ComplianceLevel != "ENTERPRISE" {
		t.Errorf("expected compliance level 'ENTERPRISE', got %q", cfg.Defaults.ComplianceLevel)
	}

	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected max_attempts 5, got %d", cfg.Retry.MaxAttempts)
	}

	if cfg.Retry.BackoffBase != 250*time.Millisecond {
		t.Errorf("expected backoff_base 250ms, got %v", cfg.Retry.BackoffBase)
	}

	if cfg.Execute.TaskTimeout != 2*time.Minute {
		t.Errorf("expected task_timeout 2m, got %v", cfg.Execute.TaskTimeout)
	}

	if cfg.Execute.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Execute.Concurrency)
	}

	if cfg.Store.Path != "/tmp/baton-test.db" {
		t.Errorf("expected store path '/tmp/baton-test.db', got %q", cfg.Store.Path)
	}
}

func TestLoadFromPathKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// A sparse file only overrides what it names.
	if err := os.WriteFile(configPath, []byte("defaults:\n  budget: 25\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Defaults.Budget != 25 {
		t.Errorf("expected budget 25, got %.2f", cfg.Defaults.Budget)
	}

	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default max_attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/baton"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
