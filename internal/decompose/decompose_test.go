package decompose

import (
	"testing"

	"github.com/ShayCichocki/baton/internal/registry"
	"github.com/ShayCichocki/baton/pkg/models"
)

func newDecomposer(t *testing.T) *Decomposer {
	t.Helper()
	return New(registry.Default())
}

func taskTypes(tasks []*models.Task) []models.TaskType {
	types := make([]models.TaskType, len(tasks))
	for i, task := range tasks {
		types[i] = task.Type
	}
	return types
}

func hasType(tasks []*models.Task, want models.TaskType) bool {
	for _, task := range tasks {
		if task.Type == want {
			return true
		}
	}
	return false
}

func TestDecomposeGenerateAndTest(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{Text: "generate and test a login function"}

	tasks := d.Decompose(input, models.ComplianceBasic)

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %v", len(tasks), taskTypes(tasks))
	}
	if tasks[0].Type != models.TaskTypeCodeGeneration {
		t.Errorf("expected CODE_GENERATION first, got %s", tasks[0].Type)
	}
	if tasks[1].Type != models.TaskTypeTesting {
		t.Errorf("expected TESTING second, got %s", tasks[1].Type)
	}
}

func TestDecomposeFallback(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{Text: "lorem ipsum dolor"}

	tasks := d.Decompose(input, models.ComplianceBasic)

	if len(tasks) != 1 {
		t.Fatalf("expected 1 fallback task, got %d", len(tasks))
	}
	if tasks[0].Type != models.TaskTypeCodeGeneration {
		t.Errorf("expected CODE_GENERATION fallback, got %s", tasks[0].Type)
	}
}

func TestDecomposeEmptyInput(t *testing.T) {
	d := newDecomposer(t)

	tasks := d.Decompose(models.MultimodalInput{}, models.ComplianceBasic)

	if len(tasks) != 1 || tasks[0].Type != models.TaskTypeCodeGeneration {
		t.Fatalf("expected single fallback task, got %v", taskTypes(tasks))
	}
}

func TestDecomposeCompliancePoliciesAddCheck(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{
		Text:               "generate a billing service",
		CompliancePolicies: []string{"SOC2"},
	}

	tasks := d.Decompose(input, models.ComplianceBasic)

	if !hasType(tasks, models.TaskTypeComplianceCheck) {
		t.Errorf("expected COMPLIANCE_CHECK task, got %v", taskTypes(tasks))
	}
	if !hasType(tasks, models.TaskTypeCodeGeneration) {
		t.Errorf("expected CODE_GENERATION task, got %v", taskTypes(tasks))
	}
}

func TestDecomposeNoDuplicateTypes(t *testing.T) {
	d := newDecomposer(t)
	// "compliance" matches the keyword table and policies force the same type.
	input := models.MultimodalInput{
		Text:               "run a compliance check",
		CompliancePolicies: []string{"GDPR"},
	}

	tasks := d.Decompose(input, models.ComplianceBasic)

	count := 0
	for _, task := range tasks {
		if task.Type == models.TaskTypeComplianceCheck {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 COMPLIANCE_CHECK task, got %d", count)
	}
}

func TestDecomposeDeterministicTypes(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{Text: "review, test and deploy the API", Code: "func main() {}"}

	first := d.Decompose(input, models.ComplianceEnterprise)
	second := d.Decompose(input, models.ComplianceEnterprise)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type {
			t.Errorf("position %d: %s vs %s", i, first[i].Type, second[i].Type)
		}
		if first[i].SequenceNumber != second[i].SequenceNumber {
			t.Errorf("position %d: sequence %d vs %d", i, first[i].SequenceNumber, second[i].SequenceNumber)
		}
		if first[i].ID == second[i].ID {
			t.Errorf("position %d: expected fresh IDs per call", i)
		}
	}
}

func TestDecomposeRegistryDrivenCostAndPriority(t *testing.T) {
	reg := registry.Default()
	d := New(reg)

	tasks := d.Decompose(models.MultimodalInput{Text: "generate a widget"}, models.ComplianceBasic)

	profile := reg.Profile(models.TaskTypeCodeGeneration)
	if tasks[0].EstimatedCost != profile.BaseCost {
		t.Errorf("cost %v, want %v", tasks[0].EstimatedCost, profile.BaseCost)
	}
	if tasks[0].Priority != profile.Priority {
		t.Errorf("priority %d, want %d", tasks[0].Priority, profile.Priority)
	}
	if tasks[0].Description != profile.Description {
		t.Errorf("description %q, want %q", tasks[0].Description, profile.Description)
	}
}

func TestDecomposeModalityCapabilities(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{
		Text:   "generate a thumbnail pipeline",
		Images: []string{"sample.png"},
	}

	tasks := d.Decompose(input, models.ComplianceBasic)

	caps := tasks[0].RequiredCapabilities
	wantTags := map[string]bool{"text": false, "image": false}
	for _, c := range caps {
		if _, ok := wantTags[c]; ok {
			wantTags[c] = true
		}
	}
	for tag, found := range wantTags {
		if !found {
			t.Errorf("expected capability %q in %v", tag, caps)
		}
	}
}

func TestDecomposeComplianceLevels(t *testing.T) {
	d := newDecomposer(t)
	input := models.MultimodalInput{Text: "generate and security audit the service"}

	basic := d.Decompose(input, models.ComplianceBasic)
	for _, task := range basic {
		if task.ComplianceRequired {
			t.Errorf("BASIC: task %s should not require compliance", task.Type)
		}
	}

	enterprise := d.Decompose(input, models.ComplianceEnterprise)
	for _, task := range enterprise {
		want := task.Type == models.TaskTypeSecurityAudit || task.Type == models.TaskTypeComplianceCheck
		if task.ComplianceRequired != want {
			t.Errorf("ENTERPRISE: task %s compliance_required=%v, want %v", task.Type, task.ComplianceRequired, want)
		}
	}

	government := d.Decompose(input, models.ComplianceGovernment)
	for _, task := range government {
		if !task.ComplianceRequired {
			t.Errorf("GOVERNMENT: task %s should require compliance", task.Type)
		}
	}
}

func TestDecomposeDependenciesLeftEmpty(t *testing.T) {
	d := newDecomposer(t)

	tasks := d.Decompose(models.MultimodalInput{Text: "generate and test a parser"}, models.ComplianceBasic)

	for _, task := range tasks {
		if len(task.Dependencies) != 0 {
			t.Errorf("task %s: decomposer must not set dependencies", task.Type)
		}
	}
}
