// Package executors provides coordinate.Executor implementations: a
// deterministic stub for dry runs and an Anthropic-backed executor for
// live work.
package executors

import (
	"context"
	"fmt"
	"time"

	"github.com/ShayCichocki/baton/internal/coordinate"
	"github.com/ShayCichocki/baton/pkg/models"
)

// Outcome configures how Static handles tasks of one type.
type Outcome struct {
	// Fail makes the task fail fatally with Explanation as the message.
	Fail bool
	// Explanation is the failure message when Fail is set.
	Explanation string
	// Cost reports actual consumption; zero charges the task estimate.
	Cost float64
	// ComplianceStatus is reported verbatim; empty means unreported.
	ComplianceStatus models.ComplianceStatus
	// Confidence defaults to 1 when zero and Fail is unset.
	Confidence float64
	// Delay simulates work; the sleep honors context cancellation.
	Delay time.Duration
}

// Static is a deterministic executor for dry runs and local testing.
// Tasks succeed unless an Outcome for their type says otherwise.
type Static struct {
	outcomes map[models.TaskType]Outcome
}

// NewStatic creates a stub executor where every task succeeds.
func NewStatic() *Static {
	return &Static{outcomes: make(map[models.TaskType]Outcome)}
}

// SetOutcome overrides behavior for one task type.
func (s *Static) SetOutcome(typ models.TaskType, o Outcome) {
	s.outcomes[typ] = o
}

// Execute fulfills the task per its configured outcome.
func (s *Static) Execute(ctx context.Context, task *models.Task, _ coordinate.RunContext) (coordinate.Output, error) {
	o := s.outcomes[task.Type]

	if o.Delay > 0 {
		select {
		case <-time.After(o.Delay):
		case <-ctx.Done():
			return coordinate.Output{}, ctx.Err()
		}
	}
	if o.Fail {
		msg := o.Explanation
		if msg == "" {
			msg = "configured failure"
		}
		return coordinate.Output{}, coordinate.Fatal(fmt.Errorf("%s: %s", task.Type, msg))
	}

	conf := o.Confidence
	if conf == 0 {
		conf = 1
	}
	return coordinate.Output{
		Value:            fmt.Sprintf("[dry-run] %s: %s", task.Type, task.Description),
		CostConsumed:     o.Cost,
		ComplianceStatus: o.ComplianceStatus,
		Confidence:       conf,
	}, nil
}
