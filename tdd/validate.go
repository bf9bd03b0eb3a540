package tdd

import (
	"fmt"
	"strings"
)

// Report collects the outcome of a validation. Validators return reports
// instead of errors so callers can surface all problems and the guidance
// that goes with them in one pass.
type Report struct {
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// OK reports whether the validation passed (warnings do not fail it).
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Merge appends the contents of other into r.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) suggest(s string) {
	r.Suggestions = append(r.Suggestions, s)
}

// Validate performs the structural check on a test result: counts must be
// non-negative, the phase must be reportable, the total must equal
// passed+failed+skipped, and coverage values must be percentages.
func Validate(result TestResult) Report {
	var rep Report

	if result.Total < 0 || result.Passed < 0 || result.Failed < 0 || result.Skipped < 0 {
		rep.errorf("test counts must be non-negative (total=%d passed=%d failed=%d skipped=%d)",
			result.Total, result.Passed, result.Failed, result.Skipped)
	}

	if !result.Phase.ReportablePhase() {
		rep.errorf("invalid test phase %q (expected RED, GREEN, or REFACTOR)", result.Phase)
	}

	if sum := result.Passed + result.Failed + result.Skipped; result.Total >= 0 && result.Total != sum {
		rep.errorf("total %d does not match passed+failed+skipped (%d)", result.Total, sum)
	}

	if c := result.Coverage; c != nil {
		for _, m := range []struct {
			name  string
			value float64
		}{
			{"line", c.Line},
			{"branch", c.Branch},
			{"function", c.Function},
			{"statement", c.Statement},
		} {
			if m.value < 0 || m.value > 100 {
				rep.errorf("%s coverage %.1f%% is out of range [0, 100]", m.name, m.value)
			}
		}
	}

	return rep
}

// ValidateRed checks a test result against RED-phase rules: the run must
// contain tests and at least one of them must fail.
func ValidateRed(result TestResult) Report {
	var rep Report

	if result.Total == 0 {
		rep.errorf("RED phase requires at least one test, got none")
		rep.suggest("write failing tests first, then run them to capture the failure")
		return rep
	}

	if result.Failed == 0 {
		rep.errorf("RED phase requires at least one failing test, all %d passed", result.Passed)
		rep.suggest("write failing tests first; if the feature already works, the subtask can be skipped")
	}

	return rep
}

// ValidateGreen checks a test result against GREEN-phase rules: no
// failures, at least one pass. previousTestCount is the total from the
// prior run; pass 0 when unknown. A shrinking test count produces a
// warning, not an error, since tests may legitimately be consolidated.
func ValidateGreen(result TestResult, previousTestCount int) Report {
	var rep Report

	if result.Failed > 0 {
		rep.errorf("GREEN phase requires zero failing tests, got %d", result.Failed)
		rep.suggest("fix the implementation until the full suite passes")
	}

	if result.Passed == 0 {
		rep.errorf("GREEN phase requires at least one passing test, got none")
	}

	if previousTestCount > 0 && result.Total < previousTestCount {
		rep.warnf("test count dropped from %d to %d; tests may have been accidentally deleted",
			previousTestCount, result.Total)
	}

	return rep
}

// ValidateCoverage checks reported coverage against thresholds. It is a
// no-op when the result carries no coverage data or no thresholds are
// set. All gaps are aggregated into a single error.
func ValidateCoverage(result TestResult, thresholds CoverageThresholds) Report {
	var rep Report

	if result.Coverage == nil || thresholds.Empty() {
		return rep
	}

	var gaps []string
	check := func(name string, value, min float64) {
		if min > 0 && value < min {
			gaps = append(gaps, fmt.Sprintf("%s %.1f%% < %.1f%%", name, value, min))
		}
	}
	c := result.Coverage
	check("line", c.Line, thresholds.Line)
	check("branch", c.Branch, thresholds.Branch)
	check("function", c.Function, thresholds.Function)
	check("statement", c.Statement, thresholds.Statement)

	if len(gaps) > 0 {
		rep.errorf("coverage below thresholds: %s", strings.Join(gaps, ", "))
		rep.suggest("add tests for uncovered paths or lower the configured thresholds")
	}

	return rep
}

// PhaseOptions configures ValidatePhase.
type PhaseOptions struct {
	// Phase to validate against. REFACTOR is validated with GREEN rules.
	Phase Phase

	// PreviousTestCount from the prior run, 0 when unknown. Only used
	// for GREEN/REFACTOR validation.
	PreviousTestCount int

	// CoverageThresholds to enforce. Zero value disables the check.
	CoverageThresholds CoverageThresholds
}

// ValidatePhase runs the structural check, dispatches to the phase rules,
// and merges in coverage validation when thresholds are configured.
func ValidatePhase(result TestResult, opts PhaseOptions) Report {
	rep := Validate(result)
	if !rep.OK() {
		return rep
	}

	switch opts.Phase {
	case PhaseRed:
		rep.Merge(ValidateRed(result))
	case PhaseGreen, PhaseRefactor:
		rep.Merge(ValidateGreen(result, opts.PreviousTestCount))
	default:
		rep.errorf("cannot validate results against phase %q", opts.Phase)
		return rep
	}

	rep.Merge(ValidateCoverage(result, opts.CoverageThresholds))
	return rep
}
