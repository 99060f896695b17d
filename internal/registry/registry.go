// Package registry holds the per-task-type cost, priority, and description
// profiles used by the decomposer. Profiles are loaded once at startup and
// validated before use.
package registry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/baton/pkg/models"
)

// Profile describes how tasks of one type are parameterized.
type Profile struct {
	// BaseCost is the estimated cost in credits for one task of this type.
	BaseCost float64 `yaml:"base_cost"`
	// Priority orders tasks among peers; higher runs earlier.
	Priority int `yaml:"priority"`
	// Description is the description template for generated tasks.
	Description string `yaml:"description"`
	// Capabilities lists modality tags tasks of this type always require.
	Capabilities []string `yaml:"capabilities"`
	// BaseDuration is the estimated wall-clock time for one task.
	BaseDuration time.Duration `yaml:"base_duration"`
}

// Registry maps every task type to its profile. A Registry is complete:
// lookups for any valid task type succeed.
type Registry struct {
	profiles map[models.TaskType]Profile
}

// Default returns the built-in registry covering every task type.
func Default() *Registry {
	return &Registry{profiles: map[models.TaskType]Profile{
		models.TaskTypeCodeGeneration: {
			BaseCost:     5,
			Priority:     8,
			Description:  "Generate code for the requested functionality",
			BaseDuration: 2 * time.Minute,
		},
		models.TaskTypeCodeReview: {
			BaseCost:     3,
			Priority:     6,
			Description:  "Review code for correctness and style",
			BaseDuration: time.Minute,
		},
		models.TaskTypeDocumentation: {
			BaseCost:     2,
			Priority:     3,
			Description:  "Write documentation for the requested functionality",
			BaseDuration: time.Minute,
		},
		models.TaskTypeTesting: {
			BaseCost:     4,
			Priority:     7,
			Description:  "Write and run tests for the generated code",
			BaseDuration: 2 * time.Minute,
		},
		models.TaskTypeDebugging: {
			BaseCost:     4,
			Priority:     9,
			Description:  "Diagnose and fix the reported defect",
			BaseDuration: 3 * time.Minute,
		},
		models.TaskTypeRefactoring: {
			BaseCost:     3,
			Priority:     5,
			Description:  "Refactor the code without changing behavior",
			BaseDuration: 2 * time.Minute,
		},
		models.TaskTypeComplianceCheck: {
			BaseCost:     2,
			Priority:     4,
			Description:  "Verify the work against applicable compliance policies",
			BaseDuration: time.Minute,
		},
		models.TaskTypeSecurityAudit: {
			BaseCost:     6,
			Priority:     6,
			Description:  "Audit the work for security issues",
			BaseDuration: 3 * time.Minute,
		},
		models.TaskTypePerformanceOptimization: {
			BaseCost:     5,
			Priority:     4,
			Description:  "Optimize the work for runtime performance",
			BaseDuration: 3 * time.Minute,
		},
		models.TaskTypeDeployment: {
			BaseCost:     3,
			Priority:     2,
			Description:  "Deploy the completed work",
			BaseDuration: time.Minute,
		},
	}}
}

// LoadFile loads profile overrides from a YAML file on top of the defaults.
// Keys are task type names; unknown keys and invalid values are rejected.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file %s: %w", path, err)
	}

	var raw map[string]Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling registry file %s: %w", path, err)
	}

	reg := Default()
	for name, profile := range raw {
		taskType := models.TaskType(name)
		if !taskType.Valid() {
			return nil, fmt.Errorf("registry file %s: unknown task type %q", path, name)
		}
		base := reg.profiles[taskType]
		if profile.Description == "" {
			profile.Description = base.Description
		}
		if profile.BaseDuration == 0 {
			profile.BaseDuration = base.BaseDuration
		}
		reg.profiles[taskType] = profile
	}

	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return reg, nil
}

// Profile returns the profile for the given task type.
func (r *Registry) Profile(t models.TaskType) Profile {
	return r.profiles[t]
}

// Validate checks that the registry covers every task type with sane values.
func (r *Registry) Validate() error {
	for _, t := range models.AllTaskTypes {
		p, ok := r.profiles[t]
		if !ok {
			return fmt.Errorf("missing profile for task type %s", t)
		}
		if p.BaseCost < 0 {
			return fmt.Errorf("task type %s: negative base cost %v", t, p.BaseCost)
		}
		if p.Description == "" {
			return fmt.Errorf("task type %s: empty description", t)
		}
	}
	return nil
}
