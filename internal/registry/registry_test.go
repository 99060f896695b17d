package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ShayCichocki/baton/pkg/models"
)

func TestDefaultCoversAllTypes(t *testing.T) {
	reg := Default()

	if err := reg.Validate(); err != nil {
		t.Fatalf("default registry invalid: %v", err)
	}

	for _, taskType := range models.AllTaskTypes {
		p := reg.Profile(taskType)
		if p.BaseCost <= 0 {
			t.Errorf("%s: expected positive base cost, got %v", taskType, p.BaseCost)
		}
		if p.Priority <= 0 {
			t.Errorf("%s: expected positive priority, got %d", taskType, p.Priority)
		}
		if p.Description == "" {
			t.Errorf("%s: expected non-empty description", taskType)
		}
	}
}

func TestValidateMissingProfile(t *testing.T) {
	reg := Default()
	delete(reg.profiles, models.TaskTypeDeployment)

	if err := reg.Validate(); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestValidateNegativeCost(t *testing.T) {
	reg := Default()
	p := reg.profiles[models.TaskTypeTesting]
	p.BaseCost = -1
	reg.profiles[models.TaskTypeTesting] = p

	if err := reg.Validate(); err == nil {
		t.Fatal("expected error for negative base cost")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := []byte(`CODE_GENERATION:
  base_cost: 12
  priority: 10
TESTING:
  base_cost: 2
  priority: 1
  description: "Run the smoke suite"
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	gen := reg.Profile(models.TaskTypeCodeGeneration)
	if gen.BaseCost != 12 || gen.Priority != 10 {
		t.Errorf("override not applied: %+v", gen)
	}
	// Description falls back to the default when the override omits it.
	if gen.Description == "" {
		t.Error("expected default description to carry over")
	}

	testing_ := reg.Profile(models.TaskTypeTesting)
	if testing_.Description != "Run the smoke suite" {
		t.Errorf("unexpected description: %q", testing_.Description)
	}

	// Untouched types keep their defaults.
	deploy := reg.Profile(models.TaskTypeDeployment)
	if deploy.BaseCost != Default().Profile(models.TaskTypeDeployment).BaseCost {
		t.Errorf("unexpected change to deployment profile: %+v", deploy)
	}
}

func TestLoadFileUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte("QUANTUM_OPT:\n  base_cost: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown task type")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
