package workflow

import (
	"github.com/randalmurphal/tddflow/tdd"
)

// event is an internal state-machine event. Operations translate their
// outcomes into events; the table below decides where each event leads.
type event string

const (
	eventPreflightPassed event = "preflight-passed"
	eventBranchReady     event = "branch-ready"
	eventTestsFailing    event = "tests-failing"
	eventTestsPassing    event = "tests-passing"
	eventCommitted       event = "committed"
	eventLastCommitted   event = "last-committed"
	eventFinalized       event = "finalized"
)

// stateKey identifies a machine position. TDDPhase is empty outside
// SUBTASK_LOOP.
type stateKey struct {
	phase    Phase
	tddPhase tdd.Phase
}

type transitionKey struct {
	from stateKey
	ev   event
}

// transitions is the complete transition table. An absent entry means
// the event is illegal at that position; operations surface that as a
// TransitionError rather than guessing.
var transitions = map[transitionKey]stateKey{
	{stateKey{PhasePreflight, ""}, eventPreflightPassed}: {PhaseBranchSetup, ""},
	{stateKey{PhaseBranchSetup, ""}, eventBranchReady}:   {PhaseSubtaskLoop, tdd.PhaseRed},

	// RED accepts failing evidence (normal cycle) or passing evidence
	// (the feature already works: the subtask auto-completes and jumps
	// straight to COMMIT).
	{stateKey{PhaseSubtaskLoop, tdd.PhaseRed}, eventTestsFailing}: {PhaseSubtaskLoop, tdd.PhaseGreen},
	{stateKey{PhaseSubtaskLoop, tdd.PhaseRed}, eventTestsPassing}: {PhaseSubtaskLoop, tdd.PhaseCommit},

	{stateKey{PhaseSubtaskLoop, tdd.PhaseGreen}, eventTestsPassing}: {PhaseSubtaskLoop, tdd.PhaseCommit},

	{stateKey{PhaseSubtaskLoop, tdd.PhaseCommit}, eventCommitted}:     {PhaseSubtaskLoop, tdd.PhaseRed},
	{stateKey{PhaseSubtaskLoop, tdd.PhaseCommit}, eventLastCommitted}: {PhaseFinalize, ""},

	{stateKey{PhaseFinalize, ""}, eventFinalized}: {PhaseComplete, ""},
}

// apply moves the state along the transition table. op names the
// operation for error reporting.
func (s *State) apply(ev event, op string) error {
	next, ok := transitions[transitionKey{stateKey{s.Phase, s.TDDPhase}, ev}]
	if !ok {
		return &TransitionError{Op: op, Phase: s.Phase, TDDPhase: s.TDDPhase}
	}
	s.Phase = next.phase
	s.TDDPhase = next.tddPhase
	return nil
}

// Action is the recommended next operation for a machine position.
type Action struct {
	Action      string   `json:"action"`
	Description string   `json:"description"`
	NextSteps   []string `json:"nextSteps"`
}

// nextActions maps every reachable position to its recommended action.
var nextActions = map[stateKey]Action{
	{PhasePreflight, ""}: {
		Action:      "start",
		Description: "Workflow is initializing",
		NextSteps: []string{
			"wait for branch setup to finish",
		},
	},
	{PhaseBranchSetup, ""}: {
		Action:      "start",
		Description: "Branch setup in progress",
		NextSteps: []string{
			"wait for the workflow branch to be created",
		},
	},
	{PhaseSubtaskLoop, tdd.PhaseRed}: {
		Action:      "completePhase",
		Description: "Write failing tests for the current subtask, then report the results",
		NextSteps: []string{
			"write tests that describe the subtask's behavior",
			"run the test suite and confirm the new tests fail",
			"report the results with completePhase",
		},
	},
	{PhaseSubtaskLoop, tdd.PhaseGreen}: {
		Action:      "completePhase",
		Description: "Implement until all tests pass, then report the results",
		NextSteps: []string{
			"implement the minimum code to make the failing tests pass",
			"run the full test suite",
			"report the results with completePhase",
		},
	},
	{PhaseSubtaskLoop, tdd.PhaseCommit}: {
		Action:      "commit",
		Description: "Commit the subtask's changes",
		NextSteps: []string{
			"review the staged changes",
			"call commit to record the subtask",
		},
	},
	{PhaseFinalize, ""}: {
		Action:      "finalize",
		Description: "All subtasks committed; finalize the workflow",
		NextSteps: []string{
			"ensure the working tree is clean",
			"call finalize to mark the task done",
		},
	},
	{PhaseComplete, ""}: {
		Action:      "none",
		Description: "Workflow is complete",
		NextSteps: []string{
			"start a new workflow for the next task",
		},
	},
}

// NextActionFor returns the recommended action for a position. Unknown
// positions fall back to a resume suggestion.
func NextActionFor(phase Phase, tddPhase tdd.Phase) Action {
	if a, ok := nextActions[stateKey{phase, tddPhase}]; ok {
		return a
	}
	return Action{
		Action:      "resume",
		Description: "Workflow is in an unrecognized position",
		NextSteps:   []string{"call resume to reload the workflow state"},
	}
}
