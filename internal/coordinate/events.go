package coordinate

import (
	"sync/atomic"
	"time"

	"github.com/ShayCichocki/baton/pkg/models"
)

// EventType identifies a coordinator lifecycle event.
type EventType string

const (
	// EventTaskStarted fires when a task is dispatched to an executor.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted fires when a task's result is recorded.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskSkipped fires when a task is gated out before dispatch.
	EventTaskSkipped EventType = "task_skipped"
	// EventPlanCompleted fires once after the last result is recorded.
	EventPlanCompleted EventType = "plan_completed"
)

// Event is a single coordinator lifecycle notification.
type Event struct {
	Type      EventType
	PlanID    string
	TaskID    string
	TaskType  models.TaskType
	Success   bool
	Message   string
	Timestamp time.Time
}

// Emitter fans coordinator events out to a single consumer over a
// bounded channel. Emission never blocks execution indefinitely: if the
// consumer cannot keep up, events are dropped and counted.
type Emitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEmitter creates an emitter with the given channel capacity.
func NewEmitter(bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Emitter{events: make(chan Event, bufferSize)}
}

// Emit delivers an event, waiting briefly if the buffer is full. Events
// that still cannot be delivered are dropped.
func (e *Emitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	select {
	case e.events <- ev:
		return
	default:
	}

	t := time.NewTimer(100 * time.Millisecond)
	defer t.Stop()
	select {
	case e.events <- ev:
	case <-t.C:
		dropped := e.droppedCount.Add(1)
		if dropped%10 == 1 {
			debugLog("emitter: dropped %d events, consumer too slow", dropped)
		}
	}
}

// Events returns the receive side of the event stream.
func (e *Emitter) Events() <-chan Event {
	return e.events
}

// DroppedCount returns how many events were dropped so far.
func (e *Emitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Close closes the event stream. Emit must not be called afterwards.
func (e *Emitter) Close() {
	close(e.events)
}
