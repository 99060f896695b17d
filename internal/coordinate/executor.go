// Package coordinate executes resolved plans. It walks the plan's
// topological order, gates each task on dependencies and budget,
// dispatches to type-keyed executors with retry, and records one
// result per task.
package coordinate

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShayCichocki/baton/pkg/models"
)

// Output is what an executor reports for a completed task.
type Output struct {
	// Value is the opaque result of the work.
	Value any
	// CostConsumed is the actual credit consumption. When zero, the
	// task's estimated cost is charged instead.
	CostConsumed float64
	// ComplianceStatus is the executor's compliance verdict. When empty
	// and the task requires compliance, REQUIRES_REVIEW is recorded.
	ComplianceStatus models.ComplianceStatus
	// Confidence is the executor's self-reported confidence in [0,1].
	Confidence float64
}

// Executor performs the actual work for one task type. Implementations
// are supplied by the caller; the coordinator never decides how a task
// is fulfilled.
type Executor interface {
	Execute(ctx context.Context, task *models.Task, rc RunContext) (Output, error)
}

// RunContext exposes the successful outputs of a task's direct
// dependencies. It is read-only.
type RunContext struct {
	outputs map[string]any
}

// DependencyOutput returns the recorded output of a direct dependency.
func (rc RunContext) DependencyOutput(taskID string) (any, bool) {
	v, ok := rc.outputs[taskID]
	return v, ok
}

// DependencyIDs returns the ids of dependencies with recorded outputs.
func (rc RunContext) DependencyIDs() []string {
	ids := make([]string, 0, len(rc.outputs))
	for id := range rc.outputs {
		ids = append(ids, id)
	}
	return ids
}

// TransientError marks an executor failure as retryable (timeouts, rate
// limits). The coordinator retries with exponential backoff.
type TransientError struct {
	Err error
}

// Error describes the transient failure.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient executor error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps an error as retryable.
func Transient(err error) error { return &TransientError{Err: err} }

// FatalError marks an executor failure as immediately terminal for the
// task. No retries are attempted.
type FatalError struct {
	Err error
}

// Error describes the fatal failure.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal executor error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps an error as terminal.
func Fatal(err error) error { return &FatalError{Err: err} }

// IsTransient reports whether the error is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ExecutorNotFoundError indicates no executor is registered for a task
// type present in the plan. This is a configuration error and aborts
// the whole execution rather than failing a single task.
type ExecutorNotFoundError struct {
	// Type is the task type with no registered executor.
	Type models.TaskType
}

// Error names the unregistered task type.
func (e *ExecutorNotFoundError) Error() string {
	return fmt.Sprintf("no executor registered for task type %s", e.Type)
}
