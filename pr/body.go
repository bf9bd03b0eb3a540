package pr

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randalmurphal/tddflow/task"
	"github.com/randalmurphal/tddflow/tdd"
)

var titleCaser = cases.Title(language.English)

// Summary collects what a finished workflow produced, for rendering
// into a pull request description.
type Summary struct {
	TaskID      string
	Title       string
	Branch      string
	Subtasks    []SubtaskSummary
	FinalTests  *tdd.TestResult
	TotalCycles int
}

// SubtaskSummary is one subtask's outcome.
type SubtaskSummary struct {
	ID       string
	Title    string
	Status   task.Status
	Attempts int
}

// BuildOptions renders a Summary into creation options for the
// workflow's pull request.
func BuildOptions(s Summary, base string) Options {
	title := s.Title
	if title == "" {
		title = s.TaskID
	}
	if s.TaskID != "" && title != s.TaskID {
		title = fmt.Sprintf("[%s] %s", s.TaskID, title)
	}

	return Options{
		Title: title,
		Body:  BuildBody(s),
		Base:  base,
		Head:  s.Branch,
	}
}

// BuildBody renders the markdown description for a workflow's pull
// request: a subtask table with statuses and the final test run.
func BuildBody(s Summary) string {
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	if s.Title != "" {
		b.WriteString(s.Title)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Implemented via test-driven development across %d subtask(s).\n", len(s.Subtasks))

	if len(s.Subtasks) > 0 {
		b.WriteString("\n## Subtasks\n\n")
		b.WriteString("| Subtask | Status | Attempts |\n")
		b.WriteString("|---------|--------|----------|\n")
		for _, st := range s.Subtasks {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", st.Title, HumanizeStatus(st.Status), st.Attempts)
		}
	}

	if s.FinalTests != nil {
		b.WriteString("\n## Test Results\n\n")
		b.WriteString(s.FinalTests.Summary())
		b.WriteString("\n")
		if s.FinalTests.Coverage != nil {
			fmt.Fprintf(&b, "\nLine coverage: %.1f%%\n", s.FinalTests.Coverage.Line)
		}
	}

	return b.String()
}

// HumanizeStatus converts a status like "in-progress" to "In Progress".
func HumanizeStatus(s task.Status) string {
	return titleCaser.String(strings.ReplaceAll(string(s), "-", " "))
}
