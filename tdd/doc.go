// Package tdd defines the test-driven development cycle vocabulary and
// pure validation of reported test results against phase rules.
//
// Core types:
//   - Phase: RED, GREEN, REFACTOR, COMMIT
//   - TestResult: structured test-run summary reported by callers
//   - Report: errors, warnings, and suggestions from a validation
//
// All validators are pure functions over their inputs; they never run
// tests or touch the filesystem. RED requires at least one failure,
// GREEN requires zero failures and at least one pass, and REFACTOR is
// held to GREEN's rules.
package tdd
