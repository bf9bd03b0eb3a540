package testutil

import (
	"testing"

	"github.com/randalmurphal/tddflow/task"
)

func TestDependencyChain(t *testing.T) {
	tasks := DependencyChain(3, false)
	if len(tasks) != 3 {
		t.Fatalf("len = %d", len(tasks))
	}
	if tasks[0].Dependencies[0] != "2" || len(tasks[2].Dependencies) != 0 {
		t.Errorf("chain = %+v", tasks)
	}

	cyclic := DependencyChain(3, true)
	if cyclic[2].Dependencies[0] != "1" {
		t.Errorf("cyclic chain should close the loop: %+v", cyclic[2])
	}

	if err := task.ValidateAcyclic(tasks); err != nil {
		t.Errorf("open chain should be acyclic: %v", err)
	}
	if err := task.ValidateAcyclic(cyclic); err == nil {
		t.Error("closed chain should report a cycle")
	}
}

func TestSubtasks(t *testing.T) {
	subs := Subtasks("t1", "First", "Second")
	if len(subs) != 2 || subs[0].ID != "t1.1" || subs[1].ID != "t1.2" {
		t.Errorf("subs = %+v", subs)
	}
}
