// Package ops runs long-lived background operations concurrently with the
// terminal render loop: a broadcast event bus, an operation registry with a
// single-flight guard per kind, and a worker harness with cooperative
// cancellation. The render loop only ever touches the non-blocking query
// surface (GetStatus, ListRunning, TryNext, Cancel).
package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationID identifies one invocation of a background operation.
type OperationID string

func newOperationID() OperationID {
	return OperationID(uuid.NewString())
}

// Kind names a category of background work. At most one operation per kind
// may be in flight at any time.
type Kind string

const (
	KindAIAnalysis      Kind = "ai_analysis"
	KindReleaseNotes    Kind = "release_notes"
	KindSemanticRelease Kind = "semantic_release"
	KindTaskSearch      Kind = "task_search"
	KindCommitMessage   Kind = "commit_message"
)

type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions can happen from s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Status is an immutable snapshot of one operation. Message holds the most
// recent progress text while running, Result the payload after completion and
// Err the normalized failure reason.
type Status struct {
	ID         OperationID
	Kind       Kind
	State      State
	Message    string
	Result     string
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Running is one entry of the ListRunning view.
type Running struct {
	Kind Kind
	ID   OperationID
}

// Step is one unit of a task's ordered work sequence. Name is shown to the
// user as progress text right before Run is invoked.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Task is a background operation with all of its inputs already snapshotted.
// A task value is handed to exactly one worker and must not read shared
// mutable state; Result is only consulted after every step succeeded.
type Task interface {
	Kind() Kind
	Steps() []Step
	Result() string
}

// AlreadyRunningError is returned by Start while an operation of the same
// kind is still in flight.
type AlreadyRunningError struct {
	Kind Kind
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("operation %q is already running", e.Kind)
}
