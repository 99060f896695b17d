// Package resolve builds an executable plan from decomposed tasks. It
// wires type-level chain rules into concrete dependencies, rejects
// cyclic graphs, and emits tasks in a deterministic topological order.
package resolve

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/baton/internal/graph"
	"github.com/ShayCichocki/baton/pkg/models"
)

// ChainRule declares that every task of From must complete before every
// task of To whenever both types appear in the same batch.
type ChainRule struct {
	From models.TaskType
	To   models.TaskType
}

// DefaultChainRules is the fixed, ordered rule table applied by default.
var DefaultChainRules = []ChainRule{
	{models.TaskTypeCodeGeneration, models.TaskTypeTesting},
	{models.TaskTypeCodeReview, models.TaskTypeComplianceCheck},
	{models.TaskTypeTesting, models.TaskTypeSecurityAudit},
	{models.TaskTypeComplianceCheck, models.TaskTypeDeployment},
	{models.TaskTypeSecurityAudit, models.TaskTypeDeployment},
}

// governmentWarning is attached to every plan resolved at the strictest
// compliance tier.
const governmentWarning = "GOVERNMENT compliance level: all task outputs are subject to mandatory review"

// Resolver turns task batches into plans.
type Resolver struct {
	rules []ChainRule
}

// New creates a Resolver with the given chain rules. Passing nil uses
// DefaultChainRules.
func New(rules []ChainRule) *Resolver {
	if rules == nil {
		rules = DefaultChainRules
	}
	return &Resolver{rules: rules}
}

// Resolve populates task dependencies from the chain rules, verifies the
// result is acyclic, and returns a plan whose Tasks field holds a valid
// topological order. On a cycle it returns a *graph.CycleError and no plan.
func (r *Resolver) Resolve(tasks []*models.Task, ownerID string, mode models.Mode, level models.ComplianceLevel) (*models.Plan, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("cannot resolve an empty task batch")
	}

	byType := make(map[models.TaskType][]*models.Task)
	for _, task := range tasks {
		byType[task.Type] = append(byType[task.Type], task)
	}

	var edges []models.Edge

	// Type-level chain rules: cross-product between the two groups.
	for _, rule := range r.rules {
		for _, from := range byType[rule.From] {
			for _, to := range byType[rule.To] {
				to.Dependencies = append(to.Dependencies, from.ID)
				edges = append(edges, models.Edge{From: from.ID, To: to.ID, Kind: models.EdgeKindDependency})
			}
		}
	}

	// Same-type groups run one after another, highest priority first.
	// Iterate types in their fixed declaration order so the edge list is
	// identical across runs.
	for _, taskType := range models.AllTaskTypes {
		group := byType[taskType]
		if len(group) < 2 {
			continue
		}
		ordered := append([]*models.Task{}, group...)
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Priority != ordered[j].Priority {
				return ordered[i].Priority > ordered[j].Priority
			}
			return ordered[i].SequenceNumber < ordered[j].SequenceNumber
		})
		for i := 1; i < len(ordered); i++ {
			ordered[i].Dependencies = append(ordered[i].Dependencies, ordered[i-1].ID)
			edges = append(edges, models.Edge{From: ordered[i-1].ID, To: ordered[i].ID, Kind: models.EdgeKindSequence})
		}
	}

	g := graph.New()
	if err := g.Build(tasks); err != nil {
		return nil, fmt.Errorf("build dependency graph: %w", err)
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	ordered := make([]*models.Task, 0, len(order))
	var totalCost float64
	for _, id := range order {
		task := g.Task(id)
		ordered = append(ordered, task)
		totalCost += task.EstimatedCost
	}

	var warnings []string
	if level == models.ComplianceGovernment {
		warnings = append(warnings, governmentWarning)
	}

	return &models.Plan{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Mode:               mode,
		Tasks:              ordered,
		Edges:              edges,
		EstimatedCost:      totalCost,
		ComplianceWarnings: warnings,
		CreatedAt:          time.Now().UTC(),
	}, nil
}
