// Package store provides plan persistence. Plans are saved after
// resolution and loaded by id for execution; results are appended after
// each run. The engine depends only on the PlanStore interface, so
// persistence (or its absence) is a swappable policy.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/ShayCichocki/baton/pkg/models"
)

// PlanNotFoundError indicates no plan exists for the requested id.
type PlanNotFoundError struct {
	// PlanID is the id that was looked up.
	PlanID string
}

// Error describes the missing plan.
func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("plan %s not found", e.PlanID)
}

// PlanStore defines the interface for plan persistence.
type PlanStore interface {
	// Save persists the plan, overwriting any previous version.
	Save(ctx context.Context, plan *models.Plan) error
	// Load returns the plan with the given id, or a *PlanNotFoundError.
	Load(ctx context.Context, planID string) (*models.Plan, error)
	// SaveResults appends execution results for the plan.
	SaveResults(ctx context.Context, planID string, results []models.ExecutionResult) error
	// Results returns all recorded results for the plan, oldest first.
	Results(ctx context.Context, planID string) ([]models.ExecutionResult, error)
}

// Compile-time verification that both implementations satisfy PlanStore.
var (
	_ PlanStore = (*MemoryStore)(nil)
	_ PlanStore = (*DB)(nil)
	_ io.Closer = (*DB)(nil)
)
