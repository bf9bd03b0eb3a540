package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/tddflow/tdd"
)

// Workflow errors.
var (
	// ErrWorkflowNotFound indicates no persisted workflow exists for
	// the project.
	ErrWorkflowNotFound = errors.New("no workflow found for this project")

	// ErrWorkflowExists indicates a workflow is already active for the
	// project. One active workflow per project.
	ErrWorkflowExists = errors.New("a workflow already exists for this project")

	// ErrDirtyWorkingTree indicates finalize was blocked by
	// uncommitted changes.
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")

	// ErrNoSubtasks indicates start was called without subtasks.
	ErrNoSubtasks = errors.New("workflow requires at least one subtask")
)

// TransitionError reports an operation that is illegal for the current
// machine position. Recoverable: the caller should invoke the operation
// NextAction recommends instead.
type TransitionError struct {
	Op       string    // Operation that was attempted
	Phase    Phase     // Current workflow phase
	TDDPhase tdd.Phase // Current TDD phase, empty outside SUBTASK_LOOP
}

func (e *TransitionError) Error() string {
	if e.TDDPhase != "" {
		return fmt.Sprintf("%s is not legal in phase %s/%s", e.Op, e.Phase, e.TDDPhase)
	}
	return fmt.Sprintf("%s is not legal in phase %s", e.Op, e.Phase)
}

// ValidationError reports test evidence that failed phase validation.
// The workflow position is unchanged; the caller supplies corrected
// results.
type ValidationError struct {
	Phase  tdd.Phase
	Report tdd.Report
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s phase validation failed", e.Phase)
	if len(e.Report.Errors) > 0 {
		msg += ": " + strings.Join(e.Report.Errors, "; ")
	}
	return msg
}

// MaxAttemptsError reports a subtask that exhausted its GREEN attempts.
type MaxAttemptsError struct {
	SubtaskID string
	Attempts  int
	Max       int
	Aborted   bool // Whether the workflow state was cleared
}

func (e *MaxAttemptsError) Error() string {
	msg := fmt.Sprintf("subtask %s failed %d of %d allowed attempts", e.SubtaskID, e.Attempts, e.Max)
	if e.Aborted {
		msg += "; workflow aborted"
	}
	return msg
}

// IsRecoverable reports whether the caller can retry after correcting
// input, as opposed to a fatal collaborator failure.
func IsRecoverable(err error) bool {
	var te *TransitionError
	var ve *ValidationError
	switch {
	case errors.As(err, &te), errors.As(err, &ve):
		return true
	case errors.Is(err, ErrWorkflowNotFound),
		errors.Is(err, ErrDirtyWorkingTree),
		errors.Is(err, ErrWorkflowExists):
		return true
	}
	return false
}
