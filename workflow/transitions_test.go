package workflow

import (
	"testing"

	"github.com/randalmurphal/tddflow/tdd"
)

var allEvents = []event{
	eventPreflightPassed,
	eventBranchReady,
	eventTestsFailing,
	eventTestsPassing,
	eventCommitted,
	eventLastCommitted,
	eventFinalized,
}

// Every reachable position admits exactly the expected forward events;
// all others must be rejected.
func TestTransitionTable(t *testing.T) {
	tests := []struct {
		phase    Phase
		tddPhase tdd.Phase
		legal    map[event]stateKey
	}{
		{PhasePreflight, "", map[event]stateKey{
			eventPreflightPassed: {PhaseBranchSetup, ""},
		}},
		{PhaseBranchSetup, "", map[event]stateKey{
			eventBranchReady: {PhaseSubtaskLoop, tdd.PhaseRed},
		}},
		{PhaseSubtaskLoop, tdd.PhaseRed, map[event]stateKey{
			eventTestsFailing: {PhaseSubtaskLoop, tdd.PhaseGreen},
			eventTestsPassing: {PhaseSubtaskLoop, tdd.PhaseCommit},
		}},
		{PhaseSubtaskLoop, tdd.PhaseGreen, map[event]stateKey{
			eventTestsPassing: {PhaseSubtaskLoop, tdd.PhaseCommit},
		}},
		{PhaseSubtaskLoop, tdd.PhaseCommit, map[event]stateKey{
			eventCommitted:     {PhaseSubtaskLoop, tdd.PhaseRed},
			eventLastCommitted: {PhaseFinalize, ""},
		}},
		{PhaseFinalize, "", map[event]stateKey{
			eventFinalized: {PhaseComplete, ""},
		}},
		{PhaseComplete, "", map[event]stateKey{}},
	}

	for _, tt := range tests {
		for _, ev := range allEvents {
			s := &State{Phase: tt.phase, TDDPhase: tt.tddPhase}
			err := s.apply(ev, "test")

			want, legal := tt.legal[ev]
			if legal {
				if err != nil {
					t.Errorf("%s/%s + %s: unexpected error %v", tt.phase, tt.tddPhase, ev, err)
					continue
				}
				if s.Phase != want.phase || s.TDDPhase != want.tddPhase {
					t.Errorf("%s/%s + %s = %s/%s, want %s/%s",
						tt.phase, tt.tddPhase, ev, s.Phase, s.TDDPhase, want.phase, want.tddPhase)
				}
				continue
			}
			if err == nil {
				t.Errorf("%s/%s + %s: expected TransitionError", tt.phase, tt.tddPhase, ev)
			}
			if s.Phase != tt.phase || s.TDDPhase != tt.tddPhase {
				t.Errorf("%s/%s + %s: rejected event mutated state", tt.phase, tt.tddPhase, ev)
			}
		}
	}
}

func TestNextActionFor(t *testing.T) {
	tests := []struct {
		phase    Phase
		tddPhase tdd.Phase
		want     string
	}{
		{PhasePreflight, "", "start"},
		{PhaseBranchSetup, "", "start"},
		{PhaseSubtaskLoop, tdd.PhaseRed, "completePhase"},
		{PhaseSubtaskLoop, tdd.PhaseGreen, "completePhase"},
		{PhaseSubtaskLoop, tdd.PhaseCommit, "commit"},
		{PhaseFinalize, "", "finalize"},
		{PhaseComplete, "", "none"},
	}

	for _, tt := range tests {
		got := NextActionFor(tt.phase, tt.tddPhase)
		if got.Action != tt.want {
			t.Errorf("NextActionFor(%s, %s) = %q, want %q", tt.phase, tt.tddPhase, got.Action, tt.want)
		}
		if got.Description == "" || len(got.NextSteps) == 0 {
			t.Errorf("NextActionFor(%s, %s) missing description or steps", tt.phase, tt.tddPhase)
		}
	}

	fallback := NextActionFor(Phase("BOGUS"), "")
	if fallback.Action != "resume" {
		t.Errorf("unknown position action = %q, want resume", fallback.Action)
	}
}
