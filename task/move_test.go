package task

import (
	"errors"
	"testing"
)

// chainTasks builds the 1->2->3->1 dependency chain used across tests.
func chainTasks() []Task {
	return []Task{
		{ID: "1", Dependencies: []string{"2"}},
		{ID: "2", Dependencies: []string{"3"}},
		{ID: "3", Dependencies: []string{"1"}},
	}
}

func TestFindCrossTagDependencies_DirectEdgeOnly(t *testing.T) {
	all := Tagged{"backlog": chainTasks(), "in-progress": nil}
	moving := []Task{all["backlog"][0]}

	conflicts := FindCrossTagDependencies(moving, "backlog", "in-progress", all)

	// Only task 1's direct dependency on 2 is reported; the transitive
	// chain through 3 is not walked.
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %v", conflicts)
	}
	if conflicts[0] != (Conflict{TaskID: "1", DependencyID: "2"}) {
		t.Errorf("conflict = %+v, want {1 2}", conflicts[0])
	}
}

func TestFindCrossTagDependencies_DependencyAlreadyInTarget(t *testing.T) {
	all := Tagged{
		"backlog":     []Task{{ID: "1", Dependencies: []string{"2"}}},
		"in-progress": []Task{{ID: "2"}},
	}
	moving := []Task{all["backlog"][0]}

	conflicts := FindCrossTagDependencies(moving, "backlog", "in-progress", all)
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts when dependency lives in target, got %v", conflicts)
	}
}

func TestFindCrossTagDependencies_DependencyMovingToo(t *testing.T) {
	all := Tagged{"backlog": chainTasks()}
	moving := []Task{all["backlog"][0], all["backlog"][1]} // 1 and 2 move together

	conflicts := FindCrossTagDependencies(moving, "backlog", "in-progress", all)

	// 1->2 is satisfied by the move itself; 2->3 remains a conflict.
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", conflicts)
	}
	if conflicts[0] != (Conflict{TaskID: "2", DependencyID: "3"}) {
		t.Errorf("conflict = %+v, want {2 3}", conflicts[0])
	}
}

func TestDependentTaskIDs(t *testing.T) {
	moving := []Task{{ID: "1"}}
	conflicts := []Conflict{
		{TaskID: "1", DependencyID: "2"},
		{TaskID: "1", DependencyID: "2"}, // duplicate
		{TaskID: "1", DependencyID: "1"}, // already moving
		{TaskID: "1", DependencyID: "4"},
	}

	ids := DependentTaskIDs(moving, conflicts)
	if len(ids) != 2 || ids[0] != "2" || ids[1] != "4" {
		t.Errorf("DependentTaskIDs() = %v, want [2 4]", ids)
	}
}

func TestCanMoveWithDependencies(t *testing.T) {
	all := Tagged{
		"backlog":     []Task{{ID: "1", Dependencies: []string{"2"}}},
		"in-progress": []Task{{ID: "2"}},
	}

	check := CanMoveWithDependencies("1", "backlog", "in-progress", all)
	if !check.CanMove {
		t.Errorf("expected CanMove=true, conflicts: %v", check.Conflicts)
	}
	if len(check.Conflicts) != 0 {
		t.Errorf("expected empty conflicts, got %v", check.Conflicts)
	}

	blocked := CanMoveWithDependencies("1", "backlog", "done", all)
	if blocked.CanMove {
		t.Error("expected CanMove=false when dependency is outside target")
	}
}

func TestCanMoveWithDependencies_UnknownTask(t *testing.T) {
	all := Tagged{
		"backlog":     []Task{{ID: "1", Dependencies: []string{"2"}}},
		"in-progress": []Task{},
	}

	// An ID absent from the source tag has nothing to move; existence
	// checks belong to Tagged.Find.
	check := CanMoveWithDependencies("typo", "backlog", "in-progress", all)
	if !check.CanMove || len(check.Conflicts) != 0 {
		t.Errorf("unknown task check = %+v, want trivially movable", check)
	}
	if _, _, ok := all.Find("typo"); ok {
		t.Error("Find should report the ID as absent")
	}
}

func TestValidateCrossTagMove(t *testing.T) {
	all := Tagged{"backlog": chainTasks()}
	moving := all["backlog"][0]

	// Conflicts with no resolution fail with the three remediations.
	err := ValidateCrossTagMove(moving, "backlog", "in-progress", all, Resolution{})
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("error = %v, want *ConflictError", err)
	}
	if len(conflictErr.Suggestions) != 3 {
		t.Errorf("expected three remediation suggestions, got %v", conflictErr.Suggestions)
	}

	// Either resolution flag alone lets the move proceed.
	if err := ValidateCrossTagMove(moving, "backlog", "in-progress", all, Resolution{WithDependencies: true}); err != nil {
		t.Errorf("with-dependencies should resolve conflicts: %v", err)
	}
	if err := ValidateCrossTagMove(moving, "backlog", "in-progress", all, Resolution{IgnoreDependencies: true}); err != nil {
		t.Errorf("ignore-dependencies should resolve conflicts: %v", err)
	}

	// Both flags together are ambiguous and rejected.
	err = ValidateCrossTagMove(moving, "backlog", "in-progress", all, Resolution{
		WithDependencies:   true,
		IgnoreDependencies: true,
	})
	if !errors.Is(err, ErrConflictingResolution) {
		t.Errorf("error = %v, want ErrConflictingResolution", err)
	}

	// No conflicts: succeeds without flags.
	clean := Tagged{
		"backlog": []Task{{ID: "solo"}},
	}
	if err := ValidateCrossTagMove(clean["backlog"][0], "backlog", "in-progress", clean, Resolution{}); err != nil {
		t.Errorf("conflict-free move should validate: %v", err)
	}
}

func TestTaggedFind(t *testing.T) {
	all := Tagged{
		"backlog": []Task{{ID: "1"}},
		"done":    []Task{{ID: "2"}},
	}

	got, tag, ok := all.Find("2")
	if !ok || tag != "done" || got.ID != "2" {
		t.Errorf("Find(2) = %v, %q, %v", got, tag, ok)
	}

	if _, _, ok := all.Find("missing"); ok {
		t.Error("Find(missing) should report not found")
	}
}
