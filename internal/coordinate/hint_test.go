package coordinate

import (
	"testing"

	"github.com/ShayCichocki/baton/pkg/models"
)

func TestOrderHintValidFor(t *testing.T) {
	tasks := []*models.Task{
		newTask("a", models.TaskTypeCodeGeneration, 1),
		newTask("b", models.TaskTypeTesting, 1, "a"),
		newTask("c", models.TaskTypeDocumentation, 1),
	}

	tests := []struct {
		name string
		hint OrderHint
		want bool
	}{
		{"identity", OrderHint{"a", "b", "c"}, true},
		{"reordered independent", OrderHint{"c", "a", "b"}, true},
		{"dependency after dependent", OrderHint{"b", "a", "c"}, false},
		{"missing task", OrderHint{"a", "b"}, false},
		{"unknown id", OrderHint{"a", "b", "z"}, false},
		{"duplicate id", OrderHint{"a", "a", "b"}, false},
		{"empty", OrderHint{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hint.validFor(tasks); got != tt.want {
				t.Errorf("validFor(%v) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}

func TestOrderHintApplyInvalidKeepsOrder(t *testing.T) {
	tasks := []*models.Task{
		newTask("a", models.TaskTypeCodeGeneration, 1),
		newTask("b", models.TaskTypeTesting, 1, "a"),
	}
	out := OrderHint{"b", "a"}.apply(tasks)
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("invalid hint changed order: %s, %s", out[0].ID, out[1].ID)
	}
}

func TestEmitterDropsWhenFull(t *testing.T) {
	em := NewEmitter(1)
	em.Emit(Event{Type: EventTaskStarted})
	em.Emit(Event{Type: EventTaskStarted}) // no consumer, buffer full

	if got := em.DroppedCount(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
	em.Close()
}
