package models

import (
	"strings"
	"testing"
)

func validPlan() *Plan {
	return &Plan{
		ID:      "plan-1",
		OwnerID: "owner-1",
		Mode:    ModeAuto,
		Tasks: []*Task{
			{ID: "t1", Type: TaskTypeCodeGeneration},
			{ID: "t2", Type: TaskTypeTesting, Dependencies: []string{"t1"}},
		},
		Edges: []Edge{
			{From: "t1", To: "t2", Kind: EdgeKindDependency},
		},
	}
}

func TestPlanValidate(t *testing.T) {
	if err := validPlan().Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
}

func TestPlanValidateUnknownDependency(t *testing.T) {
	p := validPlan()
	p.Tasks[1].Dependencies = []string{"missing"}

	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for unknown dependency")
	}
	if !strings.Contains(err.Error(), "unknown task") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlanValidateOrderViolation(t *testing.T) {
	p := validPlan()
	// Reverse the task order so t2 precedes its dependency.
	p.Tasks[0], p.Tasks[1] = p.Tasks[1], p.Tasks[0]

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for order violation")
	}
}

func TestPlanValidateDuplicateTask(t *testing.T) {
	p := validPlan()
	p.Tasks = append(p.Tasks, &Task{ID: "t1", Type: TaskTypeTesting})

	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for duplicate task id")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlanValidateEdgeUnknownTask(t *testing.T) {
	p := validPlan()
	p.Edges = append(p.Edges, Edge{From: "t2", To: "ghost", Kind: EdgeKindDependency})

	if err := p.Validate(); err == nil {
		t.Fatal("expected error for edge to unknown task")
	}
}

func TestPlanTaskLookup(t *testing.T) {
	p := validPlan()

	if task := p.Task("t2"); task == nil || task.Type != TaskTypeTesting {
		t.Errorf("unexpected lookup result: %+v", task)
	}
	if task := p.Task("nope"); task != nil {
		t.Errorf("expected nil for unknown id, got %+v", task)
	}
	if idx := p.TaskIndex("t1"); idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}
	if idx := p.TaskIndex("nope"); idx != -1 {
		t.Errorf("expected -1 for unknown id, got %d", idx)
	}
}

func TestModeValid(t *testing.T) {
	for _, m := range []Mode{ModeAuto, ModeGuided, ModeManual} {
		if !m.Valid() {
			t.Errorf("expected %s to be valid", m)
		}
	}
	if Mode("auto").Valid() {
		t.Error("expected lowercase mode to be invalid")
	}
}
