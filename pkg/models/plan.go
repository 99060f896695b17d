package models

import (
	"fmt"
	"time"
)

// Mode controls how much human involvement plan execution requires.
type Mode string

const (
	// ModeAuto executes the full plan without approval.
	ModeAuto Mode = "AUTO"
	// ModeGuided pauses for approval at plan boundaries.
	ModeGuided Mode = "GUIDED"
	// ModeManual executes only explicitly selected tasks.
	ModeManual Mode = "MANUAL"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeGuided, ModeManual:
		return true
	default:
		return false
	}
}

// EdgeKind describes the relationship an edge encodes.
type EdgeKind string

const (
	// EdgeKindDependency is a hard "must complete before" relation.
	EdgeKindDependency EdgeKind = "dependency"
	// EdgeKindSequence is an ordering hint within a type group.
	EdgeKindSequence EdgeKind = "sequence"
	// EdgeKindParallelHint marks tasks safe to run concurrently.
	EdgeKindParallelHint EdgeKind = "parallel-hint"
)

// Edge is a directed relation between two tasks in a plan.
type Edge struct {
	// From is the task that must complete first.
	From string `json:"from"`
	// To is the task that waits on From.
	To string `json:"to"`
	// Kind is the relationship this edge encodes.
	Kind EdgeKind `json:"kind"`
}

// Plan is an ordered, acyclic collection of tasks produced for one request.
// Tasks appear in a valid topological order. Plans are read-only once built.
type Plan struct {
	// ID is the unique identifier for this plan.
	ID string `json:"id"`
	// OwnerID identifies the budget owner this plan executes for.
	OwnerID string `json:"owner_id"`
	// Mode is the execution mode requested for this plan.
	Mode Mode `json:"mode"`
	// Tasks holds the plan's tasks in topological order.
	Tasks []*Task `json:"tasks"`
	// Edges holds the dependency relations between tasks.
	Edges []Edge `json:"edges,omitempty"`
	// EstimatedCost is the sum of per-task cost estimates.
	EstimatedCost float64 `json:"estimated_cost"`
	// ComplianceWarnings lists advisory warnings raised during resolution.
	ComplianceWarnings []string `json:"compliance_warnings,omitempty"`
	// CreatedAt is when the plan was resolved.
	CreatedAt time.Time `json:"created_at"`
}

// Task returns the task with the given ID, or nil if not present.
func (p *Plan) Task(id string) *Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TaskIndex returns the position of the task in the plan order, or -1.
func (p *Plan) TaskIndex(id string) int {
	for i, t := range p.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the plan's structural invariants: every dependency
// references a task in the plan, and the task order respects every edge.
func (p *Plan) Validate() error {
	index := make(map[string]int, len(p.Tasks))
	for i, t := range p.Tasks {
		if _, dup := index[t.ID]; dup {
			return fmt.Errorf("plan %s: duplicate task id %s", p.ID, t.ID)
		}
		index[t.ID] = i
	}
	for _, t := range p.Tasks {
		for _, depID := range t.Dependencies {
			depIdx, ok := index[depID]
			if !ok {
				return fmt.Errorf("plan %s: task %s depends on unknown task %s", p.ID, t.ID, depID)
			}
			if depIdx >= index[t.ID] {
				return fmt.Errorf("plan %s: task %s ordered before its dependency %s", p.ID, t.ID, depID)
			}
		}
	}
	for _, e := range p.Edges {
		fromIdx, ok := index[e.From]
		if !ok {
			return fmt.Errorf("plan %s: edge references unknown task %s", p.ID, e.From)
		}
		toIdx, ok := index[e.To]
		if !ok {
			return fmt.Errorf("plan %s: edge references unknown task %s", p.ID, e.To)
		}
		if e.Kind == EdgeKindDependency && fromIdx >= toIdx {
			return fmt.Errorf("plan %s: edge %s->%s violates task order", p.ID, e.From, e.To)
		}
	}
	return nil
}
