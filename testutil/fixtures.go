package testutil

import (
	"github.com/randalmurphal/tddflow/task"
	"github.com/randalmurphal/tddflow/tdd"
)

// DependencyChain builds tasks where each depends on the next, with the
// last depending on the first when cyclic is true. IDs are "1".."n".
func DependencyChain(n int, cyclic bool) []task.Task {
	tasks := make([]task.Task, n)
	for i := 0; i < n; i++ {
		id := taskID(i + 1)
		var deps []string
		if i < n-1 {
			deps = []string{taskID(i + 2)}
		} else if cyclic {
			deps = []string{taskID(1)}
		}
		tasks[i] = task.Task{ID: id, Status: task.StatusPending, Dependencies: deps}
	}
	return tasks
}

func taskID(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return digits[n : n+1]
	}
	return taskID(n/10) + digits[n%10:n%10+1]
}

// Subtasks builds n subtasks with IDs "<taskID>.1".."<taskID>.n".
func Subtasks(taskID string, titles ...string) []task.Subtask {
	subs := make([]task.Subtask, len(titles))
	for i, title := range titles {
		subs[i] = task.Subtask{
			ID:     taskID + "." + string(rune('1'+i)),
			Title:  title,
			Status: task.StatusPending,
		}
	}
	return subs
}

// FailingRun is RED-phase evidence with the given failure count.
func FailingRun(failed int) tdd.TestResult {
	return tdd.TestResult{Total: failed, Failed: failed, Phase: tdd.PhaseRed}
}

// PassingRun is GREEN-phase evidence with the given pass count.
func PassingRun(passed int) tdd.TestResult {
	return tdd.TestResult{Total: passed, Passed: passed, Phase: tdd.PhaseGreen}
}
