package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/tddflow/commitmsg"
	"github.com/randalmurphal/tddflow/config"
	"github.com/randalmurphal/tddflow/git"
	"github.com/randalmurphal/tddflow/notify"
	"github.com/randalmurphal/tddflow/pr"
	"github.com/randalmurphal/tddflow/store"
	"github.com/randalmurphal/tddflow/task"
	"github.com/randalmurphal/tddflow/tdd"
)

// VersionControl is the git collaborator consumed by the machine.
// *git.Context satisfies it; tests inject a mock-backed context.
type VersionControl interface {
	CurrentBranch() (string, error)
	CheckoutNew(name string) error
	Stage(files ...string) error
	StageAll() error
	Commit(message string) error
	HeadCommit() (string, error)
	IsClean() (bool, error)
	Push(remote, branch string, setUpstream bool) error
	GetRemoteURL(remote string) (string, error)
}

// Machine drives one task's workflow: it sequences subtasks through
// RED→GREEN→COMMIT cycles, validates test evidence before advancing,
// and coordinates branch and commit operations. All collaborators are
// injected through the constructor; there is no hidden global state.
//
// A Machine is not safe for concurrent use. Persistence after every
// mutation makes the workflow resumable across process restarts.
type Machine struct {
	projectPath string
	store       *store.Store
	vcs         VersionControl
	tasks       task.Repository
	commits     *commitmsg.Generator
	cfg         *config.Config
	notifier    notify.Notifier
	provider    pr.Provider
	log         *slog.Logger

	state *State
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithConfig sets the workflow configuration.
func WithConfig(cfg *config.Config) MachineOption {
	return func(m *Machine) { m.cfg = cfg }
}

// WithTaskRepository sets the task store used to mark tasks done at
// finalization.
func WithTaskRepository(repo task.Repository) MachineOption {
	return func(m *Machine) { m.tasks = repo }
}

// WithCommitGenerator sets the commit message generator.
func WithCommitGenerator(g *commitmsg.Generator) MachineOption {
	return func(m *Machine) { m.commits = g }
}

// WithNotifier sets the notifier receiving workflow events.
func WithNotifier(n notify.Notifier) MachineOption {
	return func(m *Machine) { m.notifier = n }
}

// WithPRProvider sets the pull request provider used at finalization.
func WithPRProvider(p pr.Provider) MachineOption {
	return func(m *Machine) { m.provider = p }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) MachineOption {
	return func(m *Machine) { m.log = l }
}

// NewMachine creates a workflow machine for the project directory.
func NewMachine(projectPath string, st *store.Store, vcs VersionControl, opts ...MachineOption) *Machine {
	m := &Machine{
		projectPath: projectPath,
		store:       st,
		vcs:         vcs,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cfg == nil {
		m.cfg = config.Default()
	}
	if m.commits == nil {
		m.commits = commitmsg.NewGenerator(nil, m.cfg.CommitTemplate)
	}
	return m
}

// Start creates a new workflow for the task and drives it through
// PREFLIGHT and BRANCH_SETUP into the first subtask's RED phase,
// persisting after each sub-step. Fails with ErrWorkflowExists when a
// workflow is already active for the project; a COMPLETE workflow is
// retained only as history and is superseded.
func (m *Machine) Start(ctx context.Context, taskID, title string, subtasks []task.Subtask) (*Status, error) {
	if m.store.Exists(m.projectPath) {
		m.state = nil
		prev, err := m.loadState()
		if err != nil || prev.Phase != PhaseComplete {
			return nil, ErrWorkflowExists
		}
	}
	if len(subtasks) == 0 {
		return nil, ErrNoSubtasks
	}

	s := NewState(taskID, title, subtasks, m.cfg.MaxAttempts)
	m.state = s
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logEvent("workflow-start", map[string]any{
		"taskId":   taskID,
		"subtasks": len(subtasks),
	})
	m.emit(ctx, notify.EventWorkflowStarted, notify.SeverityInfo,
		fmt.Sprintf("workflow started for %s", taskID), nil)

	// Preflight holds only structural checks; the subtask list was
	// validated above.
	if err := s.apply(eventPreflightPassed, "start"); err != nil {
		return nil, err
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logEvent("phase-start", map[string]any{"phase": string(s.Phase)})

	branch, err := m.branchName(taskID, title)
	if err != nil {
		return nil, err
	}
	if err := m.vcs.CheckoutNew(branch); err != nil {
		s.AddError(string(s.Phase), err, false)
		if perr := m.persist(s); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("branch setup: %w", err)
	}
	s.BranchName = branch

	if err := s.apply(eventBranchReady, "start"); err != nil {
		return nil, err
	}
	if sub, ok := s.CurrentSubtask(); ok {
		sub.Status = task.StatusInProgress
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logEvent("phase-start", map[string]any{
		"phase":    string(s.Phase),
		"tddPhase": string(s.TDDPhase),
		"branch":   branch,
	})
	m.emit(ctx, notify.EventPhaseAdvanced, notify.SeverityInfo,
		fmt.Sprintf("branch %s created, first subtask entering RED", branch), nil)

	m.log.Info("workflow started",
		"task_id", taskID, "branch", branch, "subtasks", len(subtasks))
	return StatusOf(s), nil
}

// Resume loads the persisted workflow and returns its status without
// side effects.
func (m *Machine) Resume(ctx context.Context) (*Status, error) {
	m.state = nil
	s, err := m.loadState()
	if err != nil {
		return nil, err
	}
	m.log.Info("workflow resumed",
		"task_id", s.TaskID, "phase", s.Phase, "tdd_phase", s.TDDPhase)
	return StatusOf(s), nil
}

// Status returns the current status projection.
func (m *Machine) Status() (*Status, error) {
	s, err := m.loadState()
	if err != nil {
		return nil, err
	}
	return StatusOf(s), nil
}

// NextAction returns the recommended operation for the current
// position.
func (m *Machine) NextAction() (Action, error) {
	s, err := m.loadState()
	if err != nil {
		return Action{}, err
	}
	return NextActionFor(s.Phase, s.TDDPhase), nil
}

// HasWorkflow reports whether a workflow exists for the project,
// without loading it.
func (m *Machine) HasWorkflow() bool {
	return m.store.Exists(m.projectPath)
}

// CompletePhase reports test evidence for the current TDD phase.
//
// RED with at least one test and zero failures means the feature
// already works: the subtask is auto-completed and the machine jumps
// straight to COMMIT. Otherwise RED requires at least one failure and
// GREEN requires zero failures with at least one pass; a run with no
// tests at all is rejected in either phase. A validation failure leaves
// the position unchanged, counts a GREEN attempt, and is returned to
// the caller; the machine never retries on its own.
func (m *Machine) CompletePhase(ctx context.Context, result tdd.TestResult) (*Status, error) {
	s, err := m.loadState()
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSubtaskLoop || (s.TDDPhase != tdd.PhaseRed && s.TDDPhase != tdd.PhaseGreen) {
		return nil, &TransitionError{Op: "completePhase", Phase: s.Phase, TDDPhase: s.TDDPhase}
	}

	if result.Phase != s.TDDPhase {
		rep := tdd.Report{Errors: []string{
			fmt.Sprintf("test result is for phase %s but the workflow is in %s", result.Phase, s.TDDPhase),
		}}
		return nil, &ValidationError{Phase: s.TDDPhase, Report: rep}
	}

	sub, ok := s.CurrentSubtask()
	if !ok {
		return nil, fmt.Errorf("no current subtask at index %d", s.CurrentSubtaskIndex)
	}

	// RED auto-skip: a non-empty run with zero failures means nothing to
	// implement. An empty run is no evidence and falls through to the
	// phase rules, which reject it.
	if s.TDDPhase == tdd.PhaseRed && result.Failed == 0 && result.Total > 0 {
		if rep := tdd.Validate(result); !rep.OK() {
			return nil, &ValidationError{Phase: s.TDDPhase, Report: rep}
		}
		sub.Status = task.StatusCompleted
		s.LastTestResults = &result
		if err := s.apply(eventTestsPassing, "completePhase"); err != nil {
			return nil, err
		}
		if err := m.persist(s); err != nil {
			return nil, err
		}
		m.logTestRun(sub.ID, result, true)
		m.emit(ctx, notify.EventSubtaskCompleted, notify.SeverityInfo,
			fmt.Sprintf("subtask %s already passing, skipping to COMMIT", sub.ID),
			map[string]any{"subtask": sub.ID})
		m.log.Info("red phase auto-skip", "subtask", sub.ID, "passed", result.Passed)
		return StatusOf(s), nil
	}

	prev := 0
	if s.LastTestResults != nil {
		prev = s.LastTestResults.Total
	}
	rep := tdd.ValidatePhase(result, tdd.PhaseOptions{
		Phase:              s.TDDPhase,
		PreviousTestCount:  prev,
		CoverageThresholds: m.cfg.Coverage,
	})
	if !rep.OK() {
		if s.TDDPhase == tdd.PhaseGreen {
			sub.Attempts++
			if sub.MaxAttempts > 0 && sub.Attempts >= sub.MaxAttempts {
				return nil, m.failSubtask(ctx, s, sub)
			}
		}
		s.AddError(string(s.TDDPhase), &ValidationError{Phase: s.TDDPhase, Report: rep}, true)
		if err := m.persist(s); err != nil {
			return nil, err
		}
		m.logTestRun(sub.ID, result, false)
		m.emit(ctx, notify.EventTestRecorded, notify.SeverityWarning,
			fmt.Sprintf("test evidence rejected for %s: %s", sub.ID, result.Summary()),
			map[string]any{"subtask": sub.ID, "attempt": sub.Attempts})
		return nil, &ValidationError{Phase: s.TDDPhase, Report: rep}
	}

	ev := eventTestsPassing
	if s.TDDPhase == tdd.PhaseRed {
		ev = eventTestsFailing
	}
	s.LastTestResults = &result
	if err := s.apply(ev, "completePhase"); err != nil {
		return nil, err
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logTestRun(sub.ID, result, true)
	m.emit(ctx, notify.EventPhaseAdvanced, notify.SeverityInfo,
		fmt.Sprintf("subtask %s advanced to %s", sub.ID, s.TDDPhase),
		map[string]any{"subtask": sub.ID})
	m.log.Info("phase advanced",
		"subtask", sub.ID, "tdd_phase", s.TDDPhase, "tests", result.Summary())
	return StatusOf(s), nil
}

// failSubtask marks the current subtask failed after exhausting its
// attempts and applies the configured escalation policy.
func (m *Machine) failSubtask(ctx context.Context, s *State, sub *SubtaskState) error {
	sub.Status = task.StatusFailed
	maxErr := &MaxAttemptsError{
		SubtaskID: sub.ID,
		Attempts:  sub.Attempts,
		Max:       sub.MaxAttempts,
		Aborted:   m.cfg.AbortOnMaxAttempts,
	}
	s.AddError(string(s.TDDPhase), maxErr, !m.cfg.AbortOnMaxAttempts)
	if err := m.persist(s); err != nil {
		return err
	}

	m.emit(ctx, notify.EventMaxAttemptsReached, notify.SeverityError, maxErr.Error(),
		map[string]any{"subtask": sub.ID, "attempts": sub.Attempts})
	m.log.Warn("subtask exhausted attempts",
		"subtask", sub.ID, "attempts", sub.Attempts, "max", sub.MaxAttempts)

	if m.cfg.AbortOnMaxAttempts {
		// Same contract as Abort: state cleared, branch untouched.
		if err := m.store.Delete(m.projectPath); err != nil {
			return err
		}
		m.logEvent("abort", map[string]any{"reason": "max attempts", "subtask": sub.ID})
		m.state = nil
	}
	return maxErr
}

// Commit stages all changes and records the current subtask's commit,
// then advances to the next subtask's RED phase, or to FINALIZE after
// the last subtask. Only legal while the TDD phase is COMMIT.
func (m *Machine) Commit(ctx context.Context) (*Status, error) {
	s, err := m.loadState()
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseSubtaskLoop || s.TDDPhase != tdd.PhaseCommit {
		return nil, &TransitionError{Op: "commit", Phase: s.Phase, TDDPhase: s.TDDPhase}
	}
	sub, ok := s.CurrentSubtask()
	if !ok {
		return nil, fmt.Errorf("no current subtask at index %d", s.CurrentSubtaskIndex)
	}

	message, err := m.commits.Generate(m.commitMessage(s, sub))
	if err != nil {
		return nil, fmt.Errorf("generate commit message: %w", err)
	}

	if err := m.vcs.StageAll(); err != nil {
		s.AddError(string(s.TDDPhase), err, false)
		if perr := m.persist(s); perr != nil {
			return nil, perr
		}
		return nil, err
	}
	if err := m.vcs.Commit(message); err != nil {
		// An auto-skipped subtask may genuinely have no changes; the
		// cycle still advances.
		if !errors.Is(err, git.ErrNothingToCommit) {
			s.AddError(string(s.TDDPhase), err, false)
			if perr := m.persist(s); perr != nil {
				return nil, perr
			}
			return nil, err
		}
		m.log.Info("nothing to commit for subtask", "subtask", sub.ID)
	} else if sha, shaErr := m.vcs.HeadCommit(); shaErr == nil {
		sub.CommitSHA = sha
	}

	sub.Status = task.StatusCompleted

	last := s.CurrentSubtaskIndex == len(s.Subtasks)-1
	if last {
		if err := s.apply(eventLastCommitted, "commit"); err != nil {
			return nil, err
		}
	} else {
		if err := s.apply(eventCommitted, "commit"); err != nil {
			return nil, err
		}
		s.CurrentSubtaskIndex++
		if next, ok := s.CurrentSubtask(); ok {
			next.Status = task.StatusInProgress
		}
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logEvent("commit", map[string]any{
		"subtask": sub.ID,
		"sha":     sub.CommitSHA,
		"last":    last,
	})
	m.emit(ctx, notify.EventSubtaskCommitted, notify.SeverityInfo,
		fmt.Sprintf("subtask %s committed", sub.ID),
		map[string]any{"subtask": sub.ID, "sha": sub.CommitSHA})
	m.log.Info("subtask committed",
		"subtask", sub.ID, "sha", sub.CommitSHA, "phase", s.Phase)
	return StatusOf(s), nil
}

// Finalize completes the workflow: the working tree must be clean, the
// owning task is marked done, and the machine reaches COMPLETE. When PR
// creation is configured the branch is pushed and a pull request opened;
// a PR failure is recorded but does not undo completion.
func (m *Machine) Finalize(ctx context.Context) (*Status, error) {
	s, err := m.loadState()
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseFinalize {
		return nil, &TransitionError{Op: "finalize", Phase: s.Phase, TDDPhase: s.TDDPhase}
	}

	clean, err := m.vcs.IsClean()
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, ErrDirtyWorkingTree
	}

	if m.tasks != nil {
		if err := m.tasks.MarkDone(ctx, s.TaskID); err != nil {
			return nil, fmt.Errorf("mark task done: %w", err)
		}
	}

	if err := s.apply(eventFinalized, "finalize"); err != nil {
		return nil, err
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	m.logEvent("finalize", map[string]any{"taskId": s.TaskID})

	if m.cfg.PR.Enabled && m.provider != nil {
		m.openPullRequest(ctx, s)
	}

	m.emit(ctx, notify.EventWorkflowFinalized, notify.SeverityInfo,
		fmt.Sprintf("workflow for %s complete", s.TaskID),
		map[string]any{"branch": s.BranchName, "prUrl": s.PRURL})
	m.log.Info("workflow finalized", "task_id", s.TaskID, "branch", s.BranchName)
	return StatusOf(s), nil
}

// Abort deletes the persisted workflow state. Idempotent: aborting with
// no workflow present succeeds. The branch and its commits are left
// untouched so work can be inspected or cleaned up manually.
func (m *Machine) Abort(ctx context.Context) error {
	had := m.store.Exists(m.projectPath)
	if err := m.store.Delete(m.projectPath); err != nil {
		return err
	}
	if had {
		m.logEvent("abort", map[string]any{})
		m.emit(ctx, notify.EventWorkflowAborted, notify.SeverityWarning, "workflow aborted", nil)
		m.log.Info("workflow aborted", "project", m.projectPath)
	}
	m.state = nil
	return nil
}

// openPullRequest pushes the branch and opens a PR. Best effort: any
// failure is recorded on the state and logged.
func (m *Machine) openPullRequest(ctx context.Context, s *State) {
	if err := m.vcs.Push(m.cfg.Remote, s.BranchName, true); err != nil {
		s.AddError(string(s.Phase), fmt.Errorf("push branch: %w", err), true)
		_ = m.persist(s)
		m.log.Warn("push for PR failed", "error", err, "branch", s.BranchName)
		return
	}

	if existing, err := m.provider.FindByBranch(ctx, s.BranchName); err == nil && existing != nil {
		s.PRURL = existing.URL
		_ = m.persist(s)
		return
	}

	opts := pr.BuildOptions(m.prSummary(s), m.cfg.BaseBranch)
	opts.Draft = m.cfg.PR.Draft
	opts.Labels = m.cfg.PR.Labels

	created, err := m.provider.CreatePR(ctx, opts)
	if err != nil {
		s.AddError(string(s.Phase), fmt.Errorf("create PR: %w", err), true)
		_ = m.persist(s)
		m.log.Warn("PR creation failed", "error", err, "branch", s.BranchName)
		return
	}
	s.PRURL = created.URL
	_ = m.persist(s)
	m.logEvent("pr-created", map[string]any{"url": created.URL, "id": created.ID})
	m.emit(ctx, notify.EventPRCreated, notify.SeverityInfo,
		fmt.Sprintf("pull request opened: %s", created.URL),
		map[string]any{"prUrl": created.URL})
}

func (m *Machine) prSummary(s *State) pr.Summary {
	sum := pr.Summary{
		TaskID:     s.TaskID,
		Title:      s.Title,
		Branch:     s.BranchName,
		FinalTests: s.LastTestResults,
	}
	for _, sub := range s.Subtasks {
		sum.Subtasks = append(sum.Subtasks, pr.SubtaskSummary{
			ID:       sub.ID,
			Title:    sub.Title,
			Status:   sub.Status,
			Attempts: sub.Attempts,
		})
	}
	return sum
}

// commitMessage builds the conventional-commit message for a subtask.
func (m *Machine) commitMessage(s *State, sub *SubtaskState) commitmsg.Message {
	msg := commitmsg.Message{
		Type:        commitmsg.TypeFeat,
		Description: sub.Title,
		TaskID:      s.TaskID,
		Tests:       s.LastTestResults,
		CoAuthors:   m.cfg.CoAuthors,
	}
	if s.LastTestResults != nil {
		msg.Phase = s.LastTestResults.Phase
	}
	return msg
}

// branchName renders the configured branch pattern.
func (m *Machine) branchName(taskID, title string) (string, error) {
	rendered := commitmsg.Render(m.cfg.BranchPattern, map[string]string{
		"taskId": taskID,
		"slug":   git.Slugify(title),
	}, commitmsg.RenderOptions{})
	branch := git.CleanBranch(rendered)
	if branch == "" {
		return "", fmt.Errorf("branch pattern %q rendered empty", m.cfg.BranchPattern)
	}
	return branch, nil
}

// loadState returns the active state, loading from the store on first
// use.
func (m *Machine) loadState() (*State, error) {
	if m.state != nil {
		return m.state, nil
	}
	var s State
	if err := m.store.Load(m.projectPath, &s); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkflowNotFound
		}
		return nil, err
	}
	m.state = &s
	return &s, nil
}

// persist saves the state, stamping the update time.
func (m *Machine) persist(s *State) error {
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(m.projectPath, s); err != nil {
		return fmt.Errorf("persist workflow state: %w", err)
	}
	return nil
}

// logEvent appends to the activity log. Best effort: audit failures are
// logged, never returned.
func (m *Machine) logEvent(eventType string, fields map[string]any) {
	if err := m.store.AppendEvent(m.projectPath, eventType, fields); err != nil {
		m.log.Warn("activity log append failed", "error", err, "type", eventType)
	}
}

func (m *Machine) logTestRun(subtaskID string, result tdd.TestResult, accepted bool) {
	m.logEvent("test-run", map[string]any{
		"subtask":  subtaskID,
		"phase":    string(result.Phase),
		"total":    result.Total,
		"passed":   result.Passed,
		"failed":   result.Failed,
		"skipped":  result.Skipped,
		"accepted": accepted,
	})
}

// emit sends a notification. Failures never fail the operation.
func (m *Machine) emit(ctx context.Context, t notify.EventType, severity, message string, meta map[string]any) {
	if m.notifier == nil {
		return
	}
	s := m.state
	ev := notify.Event{
		Type:      t,
		Project:   m.projectPath,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	}
	if s != nil {
		ev.TaskID = s.TaskID
		ev.Phase = string(s.Phase)
		if s.TDDPhase != "" {
			ev.Phase = string(s.TDDPhase)
		}
		if sub, ok := s.CurrentSubtask(); ok {
			ev.SubtaskID = sub.ID
		}
	}
	if err := m.notifier.Notify(ctx, ev); err != nil {
		m.log.Warn("notification failed", "error", err, "type", t)
	}
}
