package integrationtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tddflow/config"
	"github.com/randalmurphal/tddflow/git"
	"github.com/randalmurphal/tddflow/store"
	"github.com/randalmurphal/tddflow/task"
	"github.com/randalmurphal/tddflow/testutil"
	"github.com/randalmurphal/tddflow/workflow"
)

// doneRecorder records MarkDone calls.
type doneRecorder struct {
	done []string
}

func (r *doneRecorder) TasksByTag(ctx context.Context, tag string) ([]task.Task, error) {
	return nil, nil
}

func (r *doneRecorder) MarkDone(ctx context.Context, taskID string) error {
	r.done = append(r.done, taskID)
	return nil
}

type harness struct {
	machine *workflow.Machine
	repo    string
	store   *store.Store
	tasks   *doneRecorder
}

// newHarness builds a machine against a real temporary git repository.
func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()

	repoDir := testutil.SetupTestRepo(t)
	gitCtx, err := git.NewContext(repoDir)
	require.NoError(t, err)

	st := store.New(t.TempDir())
	tasks := &doneRecorder{}

	if cfg == nil {
		cfg = config.Default()
	}

	return &harness{
		machine: workflow.NewMachine(repoDir, st, gitCtx,
			workflow.WithConfig(cfg),
			workflow.WithTaskRepository(tasks),
		),
		repo:  repoDir,
		store: st,
		tasks: tasks,
	}
}

// newMachineFor builds a fresh machine over an existing harness's repo
// and store, simulating a new process resuming the workflow.
func newMachineFor(t *testing.T, h *harness) *workflow.Machine {
	t.Helper()

	gitCtx, err := git.NewContext(h.repo)
	require.NoError(t, err)

	return workflow.NewMachine(h.repo, h.store, gitCtx,
		workflow.WithTaskRepository(h.tasks),
	)
}
