package tdd

import "fmt"

// Phase represents a phase of the test-driven development cycle.
type Phase string

const (
	// PhaseRed: a failing test exists and proves the feature is missing.
	PhaseRed Phase = "RED"
	// PhaseGreen: the implementation makes the tests pass.
	PhaseGreen Phase = "GREEN"
	// PhaseRefactor: cleanup with the suite kept green. Validated with
	// the same rules as GREEN.
	PhaseRefactor Phase = "REFACTOR"
	// PhaseCommit: the change is ready to be committed. Only meaningful
	// as a workflow cycle position; test results are never reported
	// against it.
	PhaseCommit Phase = "COMMIT"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseRed, PhaseGreen, PhaseRefactor, PhaseCommit:
		return true
	}
	return false
}

// ReportablePhase reports whether test results may be reported against p.
func (p Phase) ReportablePhase() bool {
	switch p {
	case PhaseRed, PhaseGreen, PhaseRefactor:
		return true
	}
	return false
}

// Coverage holds coverage percentages from a test run. All values are
// percentages in [0, 100].
type Coverage struct {
	Line      float64 `json:"line"`
	Branch    float64 `json:"branch"`
	Function  float64 `json:"function"`
	Statement float64 `json:"statement"`
}

// CoverageThresholds defines minimum acceptable coverage per metric.
// A zero threshold disables the check for that metric.
type CoverageThresholds struct {
	Line      float64 `json:"line,omitempty" yaml:"line,omitempty"`
	Branch    float64 `json:"branch,omitempty" yaml:"branch,omitempty"`
	Function  float64 `json:"function,omitempty" yaml:"function,omitempty"`
	Statement float64 `json:"statement,omitempty" yaml:"statement,omitempty"`
}

// Empty reports whether no thresholds are configured.
func (t CoverageThresholds) Empty() bool {
	return t.Line == 0 && t.Branch == 0 && t.Function == 0 && t.Statement == 0
}

// TestResult is a structured summary of a test run, as reported by the
// caller. The engine never runs tests itself; it only validates the
// reported counts against the current TDD phase.
type TestResult struct {
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
	Phase    Phase     `json:"phase"`
	Coverage *Coverage `json:"coverage,omitempty"`
}

// Summary returns a short human-readable summary of the run.
func (r TestResult) Summary() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		r.Passed, r.Failed, r.Skipped, r.Total)
}
