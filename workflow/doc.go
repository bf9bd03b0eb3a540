// Package workflow implements the resumable TDD workflow state
// machine.
//
// A Machine drives one task at a time through PREFLIGHT → BRANCH_SETUP
// → SUBTASK_LOOP → FINALIZE → COMPLETE. Within SUBTASK_LOOP each
// subtask cycles RED → GREEN → COMMIT: the caller reports structured
// test evidence via CompletePhase, the machine validates it against the
// current phase's rules, and Commit records the subtask with a
// generated conventional-commit message. State persists after every
// mutation, so a workflow survives process restarts and resumes where
// it left off.
//
// All transitions run through an explicit table keyed by
// (phase, tddPhase, event); illegal operations return a
// TransitionError rather than being ignored. Every collaborator (state
// store, version control, task repository, commit message generator,
// notifier, PR provider) is injected through the constructor.
//
//	machine := workflow.NewMachine(projectDir, st, gitCtx,
//	    workflow.WithConfig(cfg))
//	status, err := machine.Start(ctx, "t1", "Add rate limiter", subtasks)
package workflow
