// Package tddflow provides a persisted, resumable workflow engine for
// test-driven development.
//
// The package is organized into subpackages by domain:
//
//   - workflow: The state machine driving RED/GREEN/COMMIT cycles
//   - tdd: TDD phases and test result validation
//   - task: Tasks, subtasks, dependency cycle detection, move validation
//   - git: Git repository operations, branches, commits
//   - pr: Pull request creation for GitHub and GitLab
//   - commitmsg: Commit message templates and rendering
//   - store: Atomic workflow state persistence and the activity log
//   - config: Layered configuration (defaults, files, environment)
//   - notify: Notification services (Slack, webhook)
//   - testutil: Test utilities and fixtures
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/tddflow/git"
//	    "github.com/randalmurphal/tddflow/store"
//	    "github.com/randalmurphal/tddflow/task"
//	    "github.com/randalmurphal/tddflow/workflow"
//	)
//
//	// Create collaborators
//	gitCtx, _ := git.NewContext("/path/to/repo")
//	st := store.New("/path/to/state")
//
//	// Drive a workflow
//	m := workflow.NewMachine("/path/to/repo", st, gitCtx)
//	status, _ := m.Start(ctx, "t1", "Add rate limiter", []task.Subtask{
//	    {ID: "t1.1", Title: "Token bucket"},
//	})
//
// See individual package documentation for detailed usage.
package tddflow
