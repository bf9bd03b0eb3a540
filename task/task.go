package task

import "context"

// Status represents the lifecycle state of a task or subtask.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusDone       Status = "done"
)

// Task is a unit of work tracked by the surrounding task-management
// system. Dependencies reference other task IDs; the graph of all tasks
// must stay acyclic.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Status       Status    `json:"status"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Subtasks     []Subtask `json:"subtasks,omitempty"`
}

// Subtask is a unit of work within a task, the granularity at which the
// TDD cycle repeats.
type Subtask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Tagged is a named partition of the task set, keyed by tag name
// (e.g. "backlog", "in-progress").
type Tagged map[string][]Task

// Find returns the task with the given ID from any tag, along with the
// tag it lives in.
func (tg Tagged) Find(id string) (*Task, string, bool) {
	for tag, tasks := range tg {
		for i := range tasks {
			if tasks[i].ID == id {
				return &tasks[i], tag, true
			}
		}
	}
	return nil, "", false
}

// Members returns the set of task IDs present in the given tag.
func (tg Tagged) Members(tag string) map[string]bool {
	members := make(map[string]bool, len(tg[tag]))
	for _, t := range tg[tag] {
		members[t.ID] = true
	}
	return members
}

// Repository is the task-store collaborator consumed by the workflow
// engine. Implementations live outside this module (file stores, MCP
// servers, issue trackers).
type Repository interface {
	// TasksByTag returns the tasks in a tag, including dependencies
	// and statuses.
	TasksByTag(ctx context.Context, tag string) ([]Task, error)

	// MarkDone marks a task as done after its workflow completes.
	MarkDone(ctx context.Context, taskID string) error
}
