package workflow

import (
	"fmt"
	"time"

	"github.com/randalmurphal/tddflow/task"
	"github.com/randalmurphal/tddflow/tdd"
)

// Phase is the workflow's top-level phase. Progression is linear:
// PREFLIGHT → BRANCH_SETUP → SUBTASK_LOOP → FINALIZE → COMPLETE, with
// no skipping and no re-entry except via Abort.
type Phase string

const (
	PhasePreflight   Phase = "PREFLIGHT"
	PhaseBranchSetup Phase = "BRANCH_SETUP"
	PhaseSubtaskLoop Phase = "SUBTASK_LOOP"
	PhaseFinalize    Phase = "FINALIZE"
	PhaseComplete    Phase = "COMPLETE"
)

// SubtaskState tracks one subtask's progress through its TDD cycle.
type SubtaskState struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Status task.Status `json:"status"`

	// Attempts counts GREEN-phase failure cycles.
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"maxAttempts,omitempty"`
	CommitSHA   string `json:"commitSha,omitempty"`
}

// WorkflowError is an error recorded against the workflow.
type WorkflowError struct {
	Phase       string    `json:"phase"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Recoverable bool      `json:"recoverable"`
}

// State is the persisted workflow context for one task. It is owned by
// exactly one Machine at a time and mutated only through the machine's
// operations.
type State struct {
	Phase    Phase     `json:"phase"`
	TDDPhase tdd.Phase `json:"tddPhase,omitempty"`

	TaskID string `json:"taskId"`
	Title  string `json:"title,omitempty"`

	Subtasks            []SubtaskState `json:"subtasks"`
	CurrentSubtaskIndex int            `json:"currentSubtaskIndex"`

	BranchName string `json:"branchName,omitempty"`
	PRURL      string `json:"prUrl,omitempty"`

	Errors          []WorkflowError   `json:"errors"`
	LastTestResults *tdd.TestResult   `json:"lastTestResults,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewState creates the initial state for a task's workflow.
func NewState(taskID, title string, subtasks []task.Subtask, maxAttempts int) *State {
	now := time.Now().UTC()

	s := &State{
		Phase:     PhasePreflight,
		TaskID:    taskID,
		Title:     title,
		Subtasks:  make([]SubtaskState, len(subtasks)),
		Errors:    []WorkflowError{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, sub := range subtasks {
		s.Subtasks[i] = SubtaskState{
			ID:          sub.ID,
			Title:       sub.Title,
			Status:      task.StatusPending,
			MaxAttempts: maxAttempts,
		}
	}
	return s
}

// CurrentSubtask returns the subtask the loop is positioned on.
func (s *State) CurrentSubtask() (*SubtaskState, bool) {
	if s.CurrentSubtaskIndex < 0 || s.CurrentSubtaskIndex >= len(s.Subtasks) {
		return nil, false
	}
	return &s.Subtasks[s.CurrentSubtaskIndex], true
}

// CompletedSubtasks counts subtasks that finished their cycle.
func (s *State) CompletedSubtasks() int {
	n := 0
	for _, sub := range s.Subtasks {
		if sub.Status == task.StatusCompleted {
			n++
		}
	}
	return n
}

// AddError records an error against the workflow.
func (s *State) AddError(phase string, err error, recoverable bool) {
	s.Errors = append(s.Errors, WorkflowError{
		Phase:       phase,
		Message:     err.Error(),
		Timestamp:   time.Now().UTC(),
		Recoverable: recoverable,
	})
}

// Status is the read-only projection returned by the machine's query
// operations.
type Status struct {
	Phase          Phase           `json:"phase"`
	TDDPhase       tdd.Phase       `json:"tddPhase,omitempty"`
	TaskID         string          `json:"taskId"`
	BranchName     string          `json:"branchName,omitempty"`
	PRURL          string          `json:"prUrl,omitempty"`
	CurrentSubtask *SubtaskState   `json:"currentSubtask,omitempty"`
	TotalSubtasks  int             `json:"totalSubtasks"`
	Completed      int             `json:"completedSubtasks"`
	Errors         []WorkflowError `json:"errors"`
}

// StatusOf projects a state into its Status.
func StatusOf(s *State) *Status {
	st := &Status{
		Phase:         s.Phase,
		TDDPhase:      s.TDDPhase,
		TaskID:        s.TaskID,
		BranchName:    s.BranchName,
		PRURL:         s.PRURL,
		TotalSubtasks: len(s.Subtasks),
		Completed:     s.CompletedSubtasks(),
		Errors:        s.Errors,
	}
	if sub, ok := s.CurrentSubtask(); ok {
		copied := *sub
		st.CurrentSubtask = &copied
	}
	return st
}

// Summary returns a one-line human-readable description of the status.
func (s *Status) Summary() string {
	if s.TDDPhase != "" {
		sub := ""
		if s.CurrentSubtask != nil {
			sub = s.CurrentSubtask.Title
		}
		return fmt.Sprintf("%s [%s/%s] %d/%d subtasks: %s",
			s.TaskID, s.Phase, s.TDDPhase, s.Completed, s.TotalSubtasks, sub)
	}
	return fmt.Sprintf("%s [%s] %d/%d subtasks", s.TaskID, s.Phase, s.Completed, s.TotalSubtasks)
}
