package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflictingResolution indicates both WithDependencies and
// IgnoreDependencies were requested for the same move. The source
// behavior for that combination is undefined, so it is rejected rather
// than guessed at.
var ErrConflictingResolution = errors.New("with-dependencies and ignore-dependencies cannot be combined")

// Conflict is a dependency of a moving task whose owner is not present
// in the destination tag.
type Conflict struct {
	TaskID       string `json:"taskId"`
	DependencyID string `json:"dependencyId"`
}

// Remediation strategies surfaced with every conflict report. The caller
// chooses; the validator never resolves conflicts on its own.
var moveRemediations = []string{
	"bring dependencies along: move the blocking tasks in the same operation (with-dependencies)",
	"sever the dependency: force the move and accept the cross-tag edge (ignore-dependencies)",
	"move dependencies first: relocate the blocking tasks, then retry this move",
}

// ConflictError reports cross-tag dependency conflicts blocking a move,
// with the remediation strategies available to the caller.
type ConflictError struct {
	TaskID      string     `json:"taskId"`
	TargetTag   string     `json:"targetTag"`
	Conflicts   []Conflict `json:"conflicts"`
	Suggestions []string   `json:"suggestions"`
}

func (e *ConflictError) Error() string {
	deps := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		deps[i] = c.DependencyID
	}
	return fmt.Sprintf("cannot move %s to %q: depends on %s outside the target tag",
		e.TaskID, e.TargetTag, strings.Join(deps, ", "))
}

// FindCrossTagDependencies inspects the direct dependencies of each
// moving task and reports those whose owner is neither already in the
// target tag nor part of the move. The check is deliberately one hop
// deep: transitive chains surface when their owners are themselves moved.
func FindCrossTagDependencies(moving []Task, sourceTag, targetTag string, all Tagged) []Conflict {
	targetMembers := all.Members(targetTag)
	movingIDs := make(map[string]bool, len(moving))
	for _, t := range moving {
		movingIDs[t.ID] = true
	}

	var conflicts []Conflict
	for _, t := range moving {
		for _, dep := range t.Dependencies {
			if targetMembers[dep] || movingIDs[dep] {
				continue
			}
			conflicts = append(conflicts, Conflict{TaskID: t.ID, DependencyID: dep})
		}
	}
	return conflicts
}

// DependentTaskIDs projects conflicts to the distinct set of dependency
// IDs blocking the move, excluding IDs already among the moving tasks.
func DependentTaskIDs(moving []Task, conflicts []Conflict) []string {
	movingIDs := make(map[string]bool, len(moving))
	for _, t := range moving {
		movingIDs[t.ID] = true
	}

	seen := make(map[string]bool)
	var ids []string
	for _, c := range conflicts {
		if movingIDs[c.DependencyID] || seen[c.DependencyID] {
			continue
		}
		seen[c.DependencyID] = true
		ids = append(ids, c.DependencyID)
	}
	return ids
}

// MoveCheck is the result of CanMoveWithDependencies.
type MoveCheck struct {
	CanMove   bool       `json:"canMove"`
	Conflicts []Conflict `json:"conflicts"`
}

// CanMoveWithDependencies reports whether the task can move from
// sourceTag to targetTag without leaving a dependency behind. A taskID
// not present in sourceTag has nothing to move and trivially reports
// CanMove with no conflicts; callers that need to distinguish a
// mistyped ID should resolve it with Tagged.Find first.
func CanMoveWithDependencies(taskID, sourceTag, targetTag string, all Tagged) MoveCheck {
	var moving []Task
	for _, t := range all[sourceTag] {
		if t.ID == taskID {
			moving = append(moving, t)
			break
		}
	}

	conflicts := FindCrossTagDependencies(moving, sourceTag, targetTag, all)
	return MoveCheck{
		CanMove:   len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// Resolution selects how cross-tag dependency conflicts should be
// handled for a move. The zero value requests strict validation.
type Resolution struct {
	// WithDependencies moves the blocking dependencies along with the task.
	WithDependencies bool

	// IgnoreDependencies forces the move, severing the dependency
	// relationship across tags.
	IgnoreDependencies bool
}

// ValidateCrossTagMove checks a single task's move from sourceTag to
// targetTag. Without a resolution flag, any conflict fails with a
// ConflictError carrying the available remediation strategies. With
// exactly one resolution flag, conflicts are considered handled by the
// caller. Both flags together are rejected with ErrConflictingResolution.
func ValidateCrossTagMove(t Task, sourceTag, targetTag string, all Tagged, res Resolution) error {
	if res.WithDependencies && res.IgnoreDependencies {
		return ErrConflictingResolution
	}

	conflicts := FindCrossTagDependencies([]Task{t}, sourceTag, targetTag, all)
	if len(conflicts) == 0 {
		return nil
	}

	if res.WithDependencies || res.IgnoreDependencies {
		return nil
	}

	return &ConflictError{
		TaskID:      t.ID,
		TargetTag:   targetTag,
		Conflicts:   conflicts,
		Suggestions: append([]string{}, moveRemediations...),
	}
}
