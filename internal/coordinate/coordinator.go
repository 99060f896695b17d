package coordinate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShayCichocki/baton/internal/ledger"
	"github.com/ShayCichocki/baton/pkg/models"
)

// Options tunes coordinator behavior. The zero value gets sensible
// defaults from New.
type Options struct {
	// MaxAttempts is the total number of executor invocations per task,
	// including the first. Defaults to 3.
	MaxAttempts int
	// BackoffBase is the delay before the first retry; it doubles on
	// each subsequent retry. Defaults to 1s.
	BackoffBase time.Duration
	// TaskTimeout bounds a single executor invocation. Zero disables
	// per-task deadlines. Expiry counts as a transient failure.
	TaskTimeout time.Duration
	// Concurrency is the maximum number of tasks in flight at once.
	// Values below 2 give strict sequential execution in plan order.
	Concurrency int
}

// Request describes one execution pass over a plan.
type Request struct {
	// Plan is the resolved plan to execute. Its tasks are assumed to be
	// in topological order.
	Plan *models.Plan
	// Executors maps each task type to its implementation. A considered
	// task whose type has no entry aborts the whole execution.
	Executors map[models.TaskType]Executor
	// Selected optionally restricts execution to these task ids.
	// Dependencies of selected tasks are NOT pulled in implicitly; a
	// selected task whose dependency was excluded records a failure.
	Selected []string
	// Hint optionally proposes an execution order. Invalid hints are
	// logged and ignored.
	Hint OrderHint
}

// Coordinator executes plans against a budget ledger.
type Coordinator struct {
	ledger  ledger.Ledger
	emitter *Emitter
	opts    Options
}

// New creates a coordinator. A nil emitter disables event emission.
func New(l ledger.Ledger, opts Options) *Coordinator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Coordinator{ledger: l, opts: opts}
}

// SetEmitter attaches an event emitter. Must be called before Execute.
func (c *Coordinator) SetEmitter(e *Emitter) {
	c.emitter = e
}

// Execute runs the plan's tasks and returns one result per considered
// task, in plan order. Individual task failures are recorded in the
// results, not returned as errors; only configuration problems (unknown
// selected ids, missing executors) produce an error.
func (c *Coordinator) Execute(ctx context.Context, req Request) ([]models.ExecutionResult, error) {
	if req.Plan == nil {
		return nil, errors.New("coordinate: nil plan")
	}

	considered, err := c.consider(req)
	if err != nil {
		return nil, err
	}
	order := req.Hint.apply(considered)

	debugLog("executing plan %s: %d tasks, concurrency %d", req.Plan.ID, len(order), c.opts.Concurrency)
	results := c.run(ctx, req.Plan, order, req.Executors)

	// Results come back keyed by completion; return them in plan order.
	byID := make(map[string]models.ExecutionResult, len(results))
	for _, r := range results {
		byID[r.TaskID] = r
	}
	ordered := make([]models.ExecutionResult, 0, len(considered))
	for _, t := range considered {
		if r, ok := byID[t.ID]; ok {
			ordered = append(ordered, r)
		}
	}

	c.emit(Event{Type: EventPlanCompleted, PlanID: req.Plan.ID, Success: allSucceeded(ordered)})
	return ordered, nil
}

// consider filters the plan's tasks by the selected-ID set and verifies
// every considered task type has an executor.
func (c *Coordinator) consider(req Request) ([]*models.Task, error) {
	var selected map[string]bool
	if len(req.Selected) > 0 {
		selected = make(map[string]bool, len(req.Selected))
		for _, id := range req.Selected {
			if req.Plan.Task(id) == nil {
				return nil, fmt.Errorf("coordinate: selected task %q not in plan %s", id, req.Plan.ID)
			}
			selected[id] = true
		}
	}

	considered := make([]*models.Task, 0, len(req.Plan.Tasks))
	for _, t := range req.Plan.Tasks {
		if selected != nil && !selected[t.ID] {
			continue
		}
		if _, ok := req.Executors[t.Type]; !ok {
			return nil, &ExecutorNotFoundError{Type: t.Type}
		}
		considered = append(considered, t)
	}
	return considered, nil
}

type taskOutcome struct {
	task   *models.Task
	out    Output
	err    error
	took   time.Duration
	tries  int
	ctxErr error
}

// run drives the ready-set loop. With Concurrency 1 it degenerates to
// strict sequential execution: the order slice is topological, so the
// first unfinished task always has its dependencies settled.
func (c *Coordinator) run(ctx context.Context, plan *models.Plan, order []*models.Task, executors map[models.TaskType]Executor) []models.ExecutionResult {
	n := len(order)
	inBatch := make(map[string]bool, n)
	for _, t := range order {
		inBatch[t.ID] = true
	}

	finished := make(map[string]*models.ExecutionResult, n)
	outputs := make(map[string]any, n)
	running := make(map[string]bool, n)
	done := make(chan taskOutcome, n)

	results := make([]models.ExecutionResult, 0, n)
	record := func(t *models.Task, r models.ExecutionResult) {
		finished[t.ID] = &r
		results = append(results, r)
		if r.Success {
			outputs[t.ID] = r.Output
		}
	}

	for len(finished) < n {
		if ctx.Err() != nil {
			c.cancelRemaining(plan, order, finished, running, record)
			break
		}

		launched := false
	scan:
		for _, t := range order {
			if finished[t.ID] != nil || running[t.ID] {
				continue
			}

			ready, depFailed := c.depState(t, inBatch, finished)
			if !ready {
				continue
			}
			if len(running) >= c.opts.Concurrency {
				// No free slot; gates are deliberately not evaluated
				// early so budget checks see prior consumption.
				break scan
			}
			if depFailed {
				debugLog("task %s skipped: unmet dependencies", t.ID)
				c.emit(Event{Type: EventTaskSkipped, PlanID: plan.ID, TaskID: t.ID, TaskType: t.Type, Message: "dependencies not satisfied"})
				record(t, skippedResult(t, "dependencies not satisfied", models.ComplianceNonCompliant))
				launched = true
				continue
			}
			if !c.ledger.HasBudget(plan.OwnerID, t.EstimatedCost) {
				debugLog("task %s skipped: owner %s cannot afford %.2f", t.ID, plan.OwnerID, t.EstimatedCost)
				c.emit(Event{Type: EventTaskSkipped, PlanID: plan.ID, TaskID: t.ID, TaskType: t.Type, Message: "insufficient budget"})
				record(t, skippedResult(t, "insufficient budget", unverifiedStatus(t)))
				launched = true
				continue
			}

			c.emit(Event{Type: EventTaskStarted, PlanID: plan.ID, TaskID: t.ID, TaskType: t.Type})
			running[t.ID] = true
			launched = true
			go c.worker(ctx, t, executors[t.Type], dependencyContext(t, outputs), done)
		}

		if len(finished) == n {
			break
		}
		if launched && len(running) < c.opts.Concurrency {
			// Recorded gate results may have unblocked later tasks;
			// rescan before blocking.
			continue
		}
		if len(running) == 0 {
			// Unreachable for a topologically ordered batch; guard
			// against spinning forever if the invariant is violated.
			debugLog("plan %s: no runnable tasks and none in flight, aborting loop", plan.ID)
			break
		}

		select {
		case o := <-done:
			delete(running, o.task.ID)
			r := c.settle(plan, o)
			record(o.task, r)
			c.emit(Event{
				Type: EventTaskCompleted, PlanID: plan.ID, TaskID: o.task.ID,
				TaskType: o.task.Type, Success: r.Success, Message: r.Explanation,
			})
		case <-ctx.Done():
			// Handled at the top of the loop.
		}
	}

	return results
}

// depState reports whether all in-batch dependencies are settled, and
// if so whether any of them failed. Dependencies excluded from the
// batch by task selection can never succeed, so they count as failed.
func (c *Coordinator) depState(t *models.Task, inBatch map[string]bool, finished map[string]*models.ExecutionResult) (ready, depFailed bool) {
	ready = true
	for _, dep := range t.Dependencies {
		if !inBatch[dep] {
			depFailed = true
			continue
		}
		r := finished[dep]
		if r == nil {
			return false, false
		}
		if !r.Success {
			depFailed = true
		}
	}
	return ready, depFailed
}

// settle converts a worker outcome into a result, charging the ledger
// on success. The ledger is only touched from the run loop goroutine.
func (c *Coordinator) settle(plan *models.Plan, o taskOutcome) models.ExecutionResult {
	t := o.task
	if o.ctxErr != nil {
		return cancelledResult(t)
	}
	if o.err != nil {
		return models.ExecutionResult{
			TaskID:           t.ID,
			Success:          false,
			ComplianceStatus: models.ComplianceNonCompliant,
			Duration:         o.took,
			Explanation:      o.err.Error(),
			Attempts:         o.tries,
		}
	}

	cost := o.out.CostConsumed
	if cost == 0 {
		cost = t.EstimatedCost
	}
	if err := c.ledger.Consume(plan.OwnerID, cost); err != nil {
		// Passed the gate but lost the race for the last credits.
		debugLog("task %s: consume of %.2f failed: %v", t.ID, cost, err)
		return models.ExecutionResult{
			TaskID:           t.ID,
			Success:          false,
			ComplianceStatus: unverifiedStatus(t),
			Duration:         o.took,
			Explanation:      "insufficient budget",
			Attempts:         o.tries,
		}
	}

	status := models.ComplianceCompliant
	if t.ComplianceRequired {
		status = o.out.ComplianceStatus
		if status == "" {
			status = models.ComplianceRequiresReview
		}
	}
	r := models.ExecutionResult{
		TaskID:           t.ID,
		Success:          true,
		Output:           o.out.Value,
		CostConsumed:     cost,
		ComplianceStatus: status,
		Duration:         o.took,
		Confidence:       o.out.Confidence,
		Attempts:         o.tries,
	}
	r.ClampConfidence()
	return r
}

// cancelRemaining records cancelled results for every unsettled task.
// In-flight workers are left to observe the context themselves; their
// eventual outcomes are discarded.
func (c *Coordinator) cancelRemaining(plan *models.Plan, order []*models.Task, finished map[string]*models.ExecutionResult, running map[string]bool, record func(*models.Task, models.ExecutionResult)) {
	for _, t := range order {
		if finished[t.ID] != nil {
			continue
		}
		if running[t.ID] {
			debugLog("task %s in flight at cancellation, result discarded", t.ID)
		}
		record(t, cancelledResult(t))
	}
}

// worker runs one task's full attempt loop off the run loop goroutine.
func (c *Coordinator) worker(ctx context.Context, t *models.Task, exec Executor, rc RunContext, done chan<- taskOutcome) {
	start := time.Now()
	out, tries, err := c.attempt(ctx, t, exec, rc)
	o := taskOutcome{task: t, out: out, err: err, took: time.Since(start), tries: tries}
	if ctx.Err() != nil {
		o.ctxErr = ctx.Err()
	}
	done <- o
}

// attempt invokes the executor with retry. Transient failures back off
// exponentially; fatal and unclassified failures stop immediately.
func (c *Coordinator) attempt(ctx context.Context, t *models.Task, exec Executor, rc RunContext) (Output, int, error) {
	var lastErr error
	for i := 0; i < c.opts.MaxAttempts; i++ {
		if i > 0 {
			backoff := c.opts.BackoffBase << (i - 1)
			debugLog("task %s: attempt %d failed (%v), retrying in %s", t.ID, i, lastErr, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return Output{}, i, ctx.Err()
			}
		}

		out, err := c.dispatch(ctx, t, exec, rc)
		if err == nil {
			return out, i + 1, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Output{}, i + 1, ctx.Err()
		}
		if !IsTransient(err) {
			return Output{}, i + 1, err
		}
	}
	return Output{}, c.opts.MaxAttempts, lastErr
}

// dispatch makes a single executor invocation under the per-task
// timeout. A hung executor does not hang the coordinator: on expiry the
// call is abandoned and its eventual return is discarded.
func (c *Coordinator) dispatch(ctx context.Context, t *models.Task, exec Executor, rc RunContext) (Output, error) {
	tctx := ctx
	cancel := func() {}
	if c.opts.TaskTimeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, c.opts.TaskTimeout)
	}
	defer cancel()

	type execRes struct {
		out Output
		err error
	}
	ch := make(chan execRes, 1)
	go func() {
		out, err := exec.Execute(tctx, t, rc)
		ch <- execRes{out: out, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return Output{}, Transient(fmt.Errorf("task %s timed out after %s", t.ID, c.opts.TaskTimeout))
		}
		return r.out, r.err
	case <-tctx.Done():
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		return Output{}, Transient(fmt.Errorf("task %s timed out after %s", t.ID, c.opts.TaskTimeout))
	}
}

// dependencyContext snapshots the outputs of a task's direct
// dependencies for the executor.
func dependencyContext(t *models.Task, outputs map[string]any) RunContext {
	rc := RunContext{outputs: make(map[string]any, len(t.Dependencies))}
	for _, dep := range t.Dependencies {
		if v, ok := outputs[dep]; ok {
			rc.outputs[dep] = v
		}
	}
	return rc
}

func (c *Coordinator) emit(ev Event) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(ev)
}

// skippedResult builds a failure for a task gated out before dispatch.
func skippedResult(t *models.Task, reason string, status models.ComplianceStatus) models.ExecutionResult {
	return models.ExecutionResult{
		TaskID:           t.ID,
		Success:          false,
		ComplianceStatus: status,
		Explanation:      reason,
	}
}

func cancelledResult(t *models.Task) models.ExecutionResult {
	return models.ExecutionResult{
		TaskID:           t.ID,
		Success:          false,
		ComplianceStatus: unverifiedStatus(t),
		Explanation:      "execution cancelled",
		Cancelled:        true,
	}
}

// unverifiedStatus classifies a task that never ran.
func unverifiedStatus(t *models.Task) models.ComplianceStatus {
	if t.ComplianceRequired {
		return models.ComplianceRequiresReview
	}
	return models.ComplianceCompliant
}

func allSucceeded(results []models.ExecutionResult) bool {
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}
