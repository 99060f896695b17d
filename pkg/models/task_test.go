package models

import "testing"

func TestTaskTypeValid(t *testing.T) {
	for _, tt := range AllTaskTypes {
		if !tt.Valid() {
			t.Errorf("expected %s to be valid", tt)
		}
	}

	invalid := []TaskType{"", "code_generation", "QUANTUM_OPTIMIZATION"}
	for _, tt := range invalid {
		if tt.Valid() {
			t.Errorf("expected %q to be invalid", tt)
		}
	}
}

func TestAllTaskTypesClosedSet(t *testing.T) {
	if len(AllTaskTypes) != 10 {
		t.Errorf("expected 10 task types, got %d", len(AllTaskTypes))
	}

	seen := make(map[TaskType]bool)
	for _, tt := range AllTaskTypes {
		if seen[tt] {
			t.Errorf("duplicate task type %s", tt)
		}
		seen[tt] = true
	}
}

func TestTaskDependsOn(t *testing.T) {
	task := &Task{
		ID:           "t2",
		Type:         TaskTypeTesting,
		Dependencies: []string{"t1"},
	}

	if !task.DependsOn("t1") {
		t.Error("expected task to depend on t1")
	}
	if task.DependsOn("t3") {
		t.Error("expected task not to depend on t3")
	}
	if task.DependsOn("") {
		t.Error("expected task not to depend on empty id")
	}
}
