package tdd

import (
	"strings"
	"testing"
)

func TestValidate_Structural(t *testing.T) {
	tests := []struct {
		name   string
		result TestResult
		wantOK bool
	}{
		{
			name:   "valid green run",
			result: TestResult{Total: 5, Passed: 5, Phase: PhaseGreen},
			wantOK: true,
		},
		{
			name:   "valid red run",
			result: TestResult{Total: 3, Passed: 1, Failed: 2, Phase: PhaseRed},
			wantOK: true,
		},
		{
			name:   "total mismatch",
			result: TestResult{Total: 10, Passed: 5, Failed: 1, Phase: PhaseGreen},
			wantOK: false,
		},
		{
			name:   "negative count",
			result: TestResult{Total: 1, Passed: -1, Failed: 2, Phase: PhaseRed},
			wantOK: false,
		},
		{
			name:   "unknown phase",
			result: TestResult{Total: 1, Passed: 1, Phase: Phase("PURPLE")},
			wantOK: false,
		},
		{
			name:   "commit phase not reportable",
			result: TestResult{Total: 1, Passed: 1, Phase: PhaseCommit},
			wantOK: false,
		},
		{
			name: "coverage out of range",
			result: TestResult{
				Total: 1, Passed: 1, Phase: PhaseGreen,
				Coverage: &Coverage{Line: 120},
			},
			wantOK: false,
		},
		{
			name:   "zero counts with refactor phase",
			result: TestResult{Phase: PhaseRefactor},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Validate(tt.result)
			if rep.OK() != tt.wantOK {
				t.Errorf("Validate() OK = %v, want %v (errors: %v)", rep.OK(), tt.wantOK, rep.Errors)
			}
		})
	}
}

func TestValidateRed(t *testing.T) {
	// No failures always fails RED validation, regardless of other fields.
	rep := ValidateRed(TestResult{Total: 5, Passed: 5, Phase: PhaseRed})
	if rep.OK() {
		t.Error("expected failure when no tests fail in RED phase")
	}
	if len(rep.Suggestions) == 0 {
		t.Error("expected a suggestion about writing failing tests")
	}

	// No tests at all also fails.
	rep = ValidateRed(TestResult{Phase: PhaseRed})
	if rep.OK() {
		t.Error("expected failure when no tests exist in RED phase")
	}

	// At least one failure passes.
	rep = ValidateRed(TestResult{Total: 3, Passed: 2, Failed: 1, Phase: PhaseRed})
	if !rep.OK() {
		t.Errorf("expected pass with one failing test, got errors: %v", rep.Errors)
	}
}

func TestValidateGreen(t *testing.T) {
	// Any failure fails GREEN.
	rep := ValidateGreen(TestResult{Total: 5, Passed: 4, Failed: 1, Phase: PhaseGreen}, 0)
	if rep.OK() {
		t.Error("expected failure when tests fail in GREEN phase")
	}

	// Zero passes fails even with zero failures.
	rep = ValidateGreen(TestResult{Total: 2, Skipped: 2, Phase: PhaseGreen}, 0)
	if rep.OK() {
		t.Error("expected failure when no tests pass in GREEN phase")
	}

	// Clean run passes.
	rep = ValidateGreen(TestResult{Total: 5, Passed: 5, Phase: PhaseGreen}, 0)
	if !rep.OK() {
		t.Errorf("expected pass, got errors: %v", rep.Errors)
	}
}

func TestValidateGreen_ShrinkingSuiteWarns(t *testing.T) {
	rep := ValidateGreen(TestResult{Total: 3, Passed: 3, Phase: PhaseGreen}, 5)
	if !rep.OK() {
		t.Fatalf("shrinking suite must be a warning, not an error: %v", rep.Errors)
	}
	if len(rep.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", rep.Warnings)
	}
	if !strings.Contains(rep.Warnings[0], "dropped from 5 to 3") {
		t.Errorf("warning should mention the counts: %q", rep.Warnings[0])
	}
}

func TestValidateCoverage(t *testing.T) {
	thresholds := CoverageThresholds{Line: 80, Branch: 70}

	// No coverage reported: no-op.
	rep := ValidateCoverage(TestResult{Total: 1, Passed: 1, Phase: PhaseGreen}, thresholds)
	if !rep.OK() {
		t.Errorf("expected no-op without coverage data, got %v", rep.Errors)
	}

	// No thresholds: no-op.
	rep = ValidateCoverage(TestResult{
		Total: 1, Passed: 1, Phase: PhaseGreen,
		Coverage: &Coverage{Line: 10},
	}, CoverageThresholds{})
	if !rep.OK() {
		t.Errorf("expected no-op without thresholds, got %v", rep.Errors)
	}

	// All gaps aggregate into one error.
	rep = ValidateCoverage(TestResult{
		Total: 1, Passed: 1, Phase: PhaseGreen,
		Coverage: &Coverage{Line: 50, Branch: 60, Function: 100, Statement: 100},
	}, thresholds)
	if rep.OK() {
		t.Fatal("expected coverage failure")
	}
	if len(rep.Errors) != 1 {
		t.Fatalf("gaps should aggregate into one error, got %d: %v", len(rep.Errors), rep.Errors)
	}
	if !strings.Contains(rep.Errors[0], "line 50.0% < 80.0%") ||
		!strings.Contains(rep.Errors[0], "branch 60.0% < 70.0%") {
		t.Errorf("error should list each gap: %q", rep.Errors[0])
	}
	if len(rep.Suggestions) == 0 {
		t.Error("expected a remediation suggestion")
	}
}

func TestValidatePhase(t *testing.T) {
	// Structural failure short-circuits phase rules.
	rep := ValidatePhase(TestResult{Total: 9, Passed: 1, Phase: PhaseRed}, PhaseOptions{Phase: PhaseRed})
	if rep.OK() {
		t.Error("expected structural failure")
	}

	// REFACTOR uses GREEN rules.
	rep = ValidatePhase(
		TestResult{Total: 4, Passed: 3, Failed: 1, Phase: PhaseRefactor},
		PhaseOptions{Phase: PhaseRefactor},
	)
	if rep.OK() {
		t.Error("REFACTOR with failures should fail like GREEN")
	}

	// Coverage merges into the phase validation.
	rep = ValidatePhase(
		TestResult{
			Total: 4, Passed: 4, Phase: PhaseGreen,
			Coverage: &Coverage{Line: 40, Branch: 100, Function: 100, Statement: 100},
		},
		PhaseOptions{Phase: PhaseGreen, CoverageThresholds: CoverageThresholds{Line: 90}},
	)
	if rep.OK() {
		t.Error("expected coverage threshold failure")
	}

	// COMMIT is not a validatable phase.
	rep = ValidatePhase(TestResult{Total: 1, Passed: 1, Phase: PhaseGreen}, PhaseOptions{Phase: PhaseCommit})
	if rep.OK() {
		t.Error("expected failure validating against COMMIT")
	}
}
