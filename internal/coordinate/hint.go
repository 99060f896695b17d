package coordinate

import "github.com/ShayCichocki/baton/pkg/models"

// OrderHint is a caller-proposed execution order. A hint is applied
// only when it is a permutation of the plan's task ids that still
// respects every dependency edge; otherwise it is logged and ignored.
type OrderHint []string

// validFor reports whether the hint can replace the given order.
func (h OrderHint) validFor(tasks []*models.Task) bool {
	if len(h) != len(tasks) {
		return false
	}

	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	seen := make(map[string]bool, len(h))
	for _, id := range h {
		t, ok := byID[id]
		if !ok || seen[id] {
			return false
		}
		for _, dep := range t.Dependencies {
			// Dependencies outside the batch are someone else's
			// problem; within it they must come first.
			if _, inBatch := byID[dep]; inBatch && !seen[dep] {
				return false
			}
		}
		seen[id] = true
	}
	return true
}

// apply reorders tasks per the hint, or returns them unchanged when the
// hint is invalid.
func (h OrderHint) apply(tasks []*models.Task) []*models.Task {
	if len(h) == 0 {
		return tasks
	}
	if !h.validFor(tasks) {
		debugLog("order hint rejected: not a dependency-respecting permutation of %d tasks", len(tasks))
		return tasks
	}

	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]*models.Task, 0, len(tasks))
	for _, id := range h {
		out = append(out, byID[id])
	}
	return out
}
