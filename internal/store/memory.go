package store

import (
	"context"
	"sync"

	"github.com/ShayCichocki/baton/pkg/models"
)

// MemoryStore is an in-process PlanStore backed by maps. It is safe for
// concurrent use and hands out copies so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	plans   map[string]*models.Plan
	results map[string][]models.ExecutionResult
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plans:   make(map[string]*models.Plan),
		results: make(map[string][]models.ExecutionResult),
	}
}

// Save persists the plan, overwriting any previous version.
func (s *MemoryStore) Save(_ context.Context, plan *models.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = copyPlan(plan)
	return nil
}

// Load returns the plan with the given id, or a *PlanNotFoundError.
func (s *MemoryStore) Load(_ context.Context, planID string) (*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok {
		return nil, &PlanNotFoundError{PlanID: planID}
	}
	return copyPlan(plan), nil
}

// SaveResults appends execution results for the plan.
func (s *MemoryStore) SaveResults(_ context.Context, planID string, results []models.ExecutionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[planID]; !ok {
		return &PlanNotFoundError{PlanID: planID}
	}
	s.results[planID] = append(s.results[planID], results...)
	return nil
}

// Results returns all recorded results for the plan, oldest first.
func (s *MemoryStore) Results(_ context.Context, planID string) ([]models.ExecutionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.plans[planID]; !ok {
		return nil, &PlanNotFoundError{PlanID: planID}
	}
	return append([]models.ExecutionResult{}, s.results[planID]...), nil
}

// copyPlan returns a deep copy of the plan's task and edge slices.
func copyPlan(p *models.Plan) *models.Plan {
	cp := *p
	cp.Tasks = make([]*models.Task, len(p.Tasks))
	for i, task := range p.Tasks {
		t := *task
		t.Dependencies = append([]string{}, task.Dependencies...)
		t.RequiredCapabilities = append([]string{}, task.RequiredCapabilities...)
		cp.Tasks[i] = &t
	}
	cp.Edges = append([]models.Edge{}, p.Edges...)
	cp.ComplianceWarnings = append([]string{}, p.ComplianceWarnings...)
	return &cp
}
