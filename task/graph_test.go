package task

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDetectCycles_Acyclic(t *testing.T) {
	tasks := []Task{
		{ID: "1", Dependencies: []string{"2", "3"}},
		{ID: "2", Dependencies: []string{"3"}},
		{ID: "3"},
	}

	cycles, err := DetectCycles(tasks)
	if err != nil {
		t.Fatalf("DetectCycles() error = %v", err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestDetectCycles_SimpleCycle(t *testing.T) {
	tasks := []Task{
		{ID: "1", Dependencies: []string{"2"}},
		{ID: "2", Dependencies: []string{"3"}},
		{ID: "3", Dependencies: []string{"1"}},
	}

	cycles, err := DetectCycles(tasks)
	if err != nil {
		t.Fatalf("DetectCycles() error = %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %v", cycles)
	}

	cycle := cycles[0]
	if len(cycle) != 4 {
		t.Fatalf("expected closed path of 4 nodes, got %v", cycle)
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("cycle path should be closed: %v", cycle)
	}
}

func TestDetectCycles_SelfLoop(t *testing.T) {
	tasks := []Task{{ID: "1", Dependencies: []string{"1"}}}

	cycles, err := DetectCycles(tasks)
	if err != nil {
		t.Fatalf("DetectCycles() error = %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %v", cycles)
	}
	if got := strings.Join(cycles[0], "->"); got != "1->1" {
		t.Errorf("self loop path = %q, want %q", got, "1->1")
	}
}

func TestDetectCycles_MissingDependencyIgnored(t *testing.T) {
	// Dependencies on tasks outside the set cannot form a cycle.
	tasks := []Task{{ID: "1", Dependencies: []string{"ghost"}}}

	cycles, err := DetectCycles(tasks)
	if err != nil {
		t.Fatalf("DetectCycles() error = %v", err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestDetectCycles_DepthBound(t *testing.T) {
	// A chain longer than the traversal bound must fail cleanly.
	n := maxTraversalDepth + 10
	tasks := make([]Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = Task{ID: fmt.Sprintf("t%d", i)}
		if i > 0 {
			tasks[i-1].Dependencies = []string{tasks[i].ID}
		}
	}

	_, err := DetectCycles(tasks)
	if !errors.Is(err, ErrGraphTooDeep) {
		t.Errorf("DetectCycles() error = %v, want ErrGraphTooDeep", err)
	}
}

func TestValidateAcyclic(t *testing.T) {
	if err := ValidateAcyclic([]Task{{ID: "a"}, {ID: "b", Dependencies: []string{"a"}}}); err != nil {
		t.Errorf("ValidateAcyclic() on acyclic graph = %v", err)
	}

	err := ValidateAcyclic([]Task{
		{ID: "a", Dependencies: []string{"b"}},
		{ID: "b", Dependencies: []string{"a"}},
	})
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("ValidateAcyclic() error = %v, want *CycleError", err)
	}
	if len(cycleErr.Path) != 3 {
		t.Errorf("cycle path = %v, want closed 2-cycle", cycleErr.Path)
	}
	if !strings.Contains(cycleErr.Error(), "->") {
		t.Errorf("error should render the cycle path: %q", cycleErr.Error())
	}
}
