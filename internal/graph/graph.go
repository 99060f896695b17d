// Package graph provides a dependency graph for task scheduling.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ShayCichocki/baton/pkg/models"
)

// ErrCycleDetected indicates a circular dependency was found in the task graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// CycleError reports a circular dependency along with the tasks involved.
// It unwraps to ErrCycleDetected so callers can match with errors.Is.
type CycleError struct {
	// TaskIDs lists the ids of tasks that could not be ordered, sorted.
	TaskIDs []string
}

// Error returns a description naming the involved task ids.
func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected involving tasks: %s", strings.Join(e.TaskIDs, ", "))
}

// Unwrap returns the cycle sentinel.
func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// DependencyGraph represents a directed acyclic graph of task dependencies.
// Tasks are nodes, and edges represent "blocked by" relationships.
type DependencyGraph struct {
	mu sync.RWMutex
	// nodes maps task ID to the task itself.
	nodes map[string]*models.Task
	// deps maps task ID to IDs of tasks it depends on (is blocked by).
	deps map[string][]string
}

// New creates a new empty dependency graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*models.Task),
		deps:  make(map[string][]string),
	}
}

// Build constructs the dependency graph from a slice of tasks.
// Returns an error if dependencies reference unknown tasks.
// Cycles are reported by TopologicalSort, not here: in-degree counting
// detects them as a byproduct of ordering.
func (g *DependencyGraph) Build(tasks []*models.Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, task := range tasks {
		g.nodes[task.ID] = task
		g.deps[task.ID] = nil
	}

	for _, task := range tasks {
		for _, depID := range task.Dependencies {
			if _, exists := g.nodes[depID]; !exists {
				return fmt.Errorf("task %s depends on unknown task %s", task.ID, depID)
			}
			g.deps[task.ID] = append(g.deps[task.ID], depID)
		}
	}

	return nil
}

// TopologicalSort returns task IDs in an order where all dependencies come
// before the tasks that depend on them, using iterative in-degree counting.
// Ties among ready tasks break by descending priority, then ascending
// sequence number, so the order is fully deterministic.
// Returns a *CycleError naming the stuck tasks if the graph has a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for id, deps := range g.deps {
		indegree[id] = len(deps)
		for _, depID := range deps {
			dependents[depID] = append(dependents[depID], id)
		}
	}

	var ready []string
	for id, degree := range indegree {
		if degree == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		g.sortReady(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	// Any node still holding in-degree is part of (or downstream of) a cycle.
	if len(order) < len(g.nodes) {
		var stuck []string
		for id, degree := range indegree {
			if degree > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, &CycleError{TaskIDs: stuck}
	}

	return order, nil
}

// sortReady orders ready task ids by descending priority, then ascending
// sequence number, then id as a final fallback for tasks built by hand.
func (g *DependencyGraph) sortReady(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := g.nodes[ids[i]], g.nodes[ids[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.SequenceNumber != b.SequenceNumber {
			return a.SequenceNumber < b.SequenceNumber
		}
		return a.ID < b.ID
	})
}

// Ready returns task IDs whose dependencies are all in the done set and
// that are not themselves done. These tasks can be executed in parallel.
func (g *DependencyGraph) Ready(done map[string]bool) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []string
	for id := range g.nodes {
		if done[id] {
			continue
		}
		blocked := false
		for _, depID := range g.deps[id] {
			if !done[depID] {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, id)
		}
	}
	g.sortReady(ready)
	return ready
}

// Task returns the task for a given ID, or nil if not found.
func (g *DependencyGraph) Task(taskID string) *models.Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[taskID]
}

// Size returns the number of tasks in the graph.
func (g *DependencyGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Dependencies returns the IDs of tasks that the given task depends on.
func (g *DependencyGraph) Dependencies(taskID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.deps[taskID]
}

// Dependents returns the IDs of tasks that depend on the given task.
func (g *DependencyGraph) Dependents(taskID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for id, deps := range g.deps {
		for _, depID := range deps {
			if depID == taskID {
				dependents = append(dependents, id)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}
