package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/baton/internal/config"
	"github.com/ShayCichocki/baton/internal/coordinate"
	"github.com/ShayCichocki/baton/internal/engine"
	"github.com/ShayCichocki/baton/internal/executors"
	"github.com/ShayCichocki/baton/internal/ledger"
	"github.com/ShayCichocki/baton/internal/registry"
	"github.com/ShayCichocki/baton/internal/store"
	"github.com/ShayCichocki/baton/pkg/models"
)

// openStore opens the SQLite plan store from config, running migrations.
// The returned closer must be called when the command finishes.
func openStore(cfg *config.Config) (*store.DB, func(), error) {
	path := cfg.Store.Path
	if path == "" {
		path = store.DefaultDBPath()
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening plan store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating plan store: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// loadRegistry returns the task-type profiles, honoring a registry
// override file when configured.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Store.RegistryFile == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadFile(cfg.Store.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("loading registry overrides: %w", err)
	}
	return reg, nil
}

// buildExecutors maps every task type onto one executor: the dry-run
// stub by default, or the Anthropic executor when live is set.
func buildExecutors(cfg *config.Config, live bool) (map[models.TaskType]coordinate.Executor, error) {
	var exec coordinate.Executor
	if live {
		apiKey, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		exec, err = executors.NewAnthropic(executors.AnthropicConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        apiKey,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Anthropic executor: %w", err)
		}
	} else {
		exec = executors.NewStatic()
	}

	execs := make(map[models.TaskType]coordinate.Executor, len(models.AllTaskTypes))
	for _, typ := range models.AllTaskTypes {
		execs[typ] = exec
	}
	return execs, nil
}

// newEngine assembles the full engine for one command invocation.
func newEngine(cfg *config.Config, st store.PlanStore, budget float64, ownerID string, live bool, concurrency int) (*engine.Engine, error) {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	execs, err := buildExecutors(cfg, live)
	if err != nil {
		return nil, err
	}

	l := ledger.NewMemoryLedger()
	l.Grant(ownerID, budget)

	if concurrency < 1 {
		concurrency = cfg.Execute.Concurrency
	}

	return engine.New(engine.Config{
		Registry:  reg,
		Store:     st,
		Ledger:    l,
		Executors: execs,
		Coordinate: coordinate.Options{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BackoffBase: cfg.Retry.BackoffBase,
			TaskTimeout: cfg.Execute.TaskTimeout,
			Concurrency: concurrency,
		},
	}), nil
}
