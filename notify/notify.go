package notify

import (
	"context"
	"time"
)

// EventType represents the type of workflow event.
type EventType string

// Event type constants.
const (
	EventWorkflowStarted    EventType = "workflow_started"
	EventPhaseAdvanced      EventType = "phase_advanced"
	EventTestRecorded       EventType = "test_recorded"
	EventSubtaskCompleted   EventType = "subtask_completed"
	EventSubtaskCommitted   EventType = "subtask_committed"
	EventMaxAttemptsReached EventType = "max_attempts_reached"
	EventWorkflowFinalized  EventType = "workflow_finalized"
	EventPRCreated          EventType = "pr_created"
	EventWorkflowAborted    EventType = "workflow_aborted"
)

// Severity constants for notification events.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a workflow event for notification.
type Event struct {
	Type      EventType      `json:"type"`
	TaskID    string         `json:"task_id"`
	Project   string         `json:"project"`
	SubtaskID string         `json:"subtask_id,omitempty"`
	Phase     string         `json:"phase,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Notifier sends notifications about workflow events.
type Notifier interface {
	// Notify sends a notification. Implementations should handle
	// errors gracefully; a failed notification never fails the
	// workflow step that produced it.
	Notify(ctx context.Context, event Event) error
}
