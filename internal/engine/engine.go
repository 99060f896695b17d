// Package engine wires decomposition, resolution, persistence, and
// execution into one façade used by the CLI.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ShayCichocki/baton/internal/aggregate"
	"github.com/ShayCichocki/baton/internal/coordinate"
	"github.com/ShayCichocki/baton/internal/decompose"
	"github.com/ShayCichocki/baton/internal/ledger"
	"github.com/ShayCichocki/baton/internal/registry"
	"github.com/ShayCichocki/baton/internal/resolve"
	"github.com/ShayCichocki/baton/internal/store"
	"github.com/ShayCichocki/baton/pkg/models"
)

// Config assembles an Engine. Nil fields fall back to in-memory
// defaults, so tests can construct an Engine from a zero Config plus
// executors.
type Config struct {
	// Registry provides task-type profiles. Nil uses the built-ins.
	Registry *registry.Registry
	// Rules are the dependency chain rules. Nil uses the defaults.
	Rules []resolve.ChainRule
	// Store persists plans and results. Nil uses an in-memory store.
	Store store.PlanStore
	// Ledger gates budgets. Nil uses an empty in-memory ledger.
	Ledger ledger.Ledger
	// Executors fulfill tasks by type.
	Executors map[models.TaskType]coordinate.Executor
	// Emitter receives execution events. Optional.
	Emitter *coordinate.Emitter
	// Coordinate tunes retry, timeout, and concurrency.
	Coordinate coordinate.Options
}

// Engine is the orchestration façade: create a plan from multimodal
// input, execute it against a budget, report the outcome.
type Engine struct {
	decomposer *decompose.Decomposer
	resolver   *resolve.Resolver
	registry   *registry.Registry
	store      store.PlanStore
	ledger     ledger.Ledger
	executors  map[models.TaskType]coordinate.Executor
	emitter    *coordinate.Emitter
	coordOpts  coordinate.Options
}

// New builds an Engine from the config.
func New(cfg Config) *Engine {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default()
	}
	rules := cfg.Rules
	if rules == nil {
		rules = resolve.DefaultChainRules
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	l := cfg.Ledger
	if l == nil {
		l = ledger.NewMemoryLedger()
	}
	return &Engine{
		decomposer: decompose.New(reg),
		resolver:   resolve.New(rules),
		registry:   reg,
		store:      st,
		ledger:     l,
		executors:  cfg.Executors,
		emitter:    cfg.Emitter,
		coordOpts:  cfg.Coordinate,
	}
}

// CreatePlan decomposes the input, resolves dependencies, and persists
// the plan. On any error nothing is persisted.
func (e *Engine) CreatePlan(ctx context.Context, ownerID string, input models.MultimodalInput, level models.ComplianceLevel, mode models.Mode) (*models.Plan, error) {
	tasks := e.decomposer.Decompose(input, level)

	plan, err := e.resolver.Resolve(tasks, ownerID, mode, level)
	if err != nil {
		return nil, fmt.Errorf("resolving plan: %w", err)
	}
	if err := e.store.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("persisting plan %s: %w", plan.ID, err)
	}
	return plan, nil
}

// ExecuteOptions narrows or reorders one execution pass.
type ExecuteOptions struct {
	// Selected restricts execution to these task ids.
	Selected []string
	// Hint proposes an execution order; invalid hints are ignored.
	Hint coordinate.OrderHint
}

// ExecutePlan loads the plan, runs it, persists the results, and
// returns the aggregated report. A missing plan surfaces as
// *store.PlanNotFoundError.
func (e *Engine) ExecutePlan(ctx context.Context, planID string, opts ExecuteOptions) (*models.ExecutionReport, error) {
	plan, err := e.store.Load(ctx, planID)
	if err != nil {
		return nil, err
	}

	coord := coordinate.New(e.ledger, e.coordOpts)
	if e.emitter != nil {
		coord.SetEmitter(e.emitter)
	}
	results, err := coord.Execute(ctx, coordinate.Request{
		Plan:      plan,
		Executors: e.executors,
		Selected:  opts.Selected,
		Hint:      opts.Hint,
	})
	if err != nil {
		return nil, err
	}

	if err := e.store.SaveResults(ctx, planID, results); err != nil {
		return nil, fmt.Errorf("persisting results for plan %s: %w", planID, err)
	}

	report := aggregate.Aggregate(planID, results)
	return &report, nil
}

// Report rebuilds the aggregated report from persisted results.
func (e *Engine) Report(ctx context.Context, planID string) (*models.ExecutionReport, error) {
	if _, err := e.store.Load(ctx, planID); err != nil {
		return nil, err
	}
	results, err := e.store.Results(ctx, planID)
	if err != nil {
		return nil, err
	}
	report := aggregate.Aggregate(planID, results)
	return &report, nil
}

// Plan loads a persisted plan.
func (e *Engine) Plan(ctx context.Context, planID string) (*models.Plan, error) {
	return e.store.Load(ctx, planID)
}

// EstimatedDuration sums the registry's per-type base durations over
// the plan's tasks. It models sequential execution; parallel runs
// finish sooner.
func (e *Engine) EstimatedDuration(plan *models.Plan) time.Duration {
	var total time.Duration
	for _, t := range plan.Tasks {
		total += e.registry.Profile(t.Type).BaseDuration
	}
	return total
}
