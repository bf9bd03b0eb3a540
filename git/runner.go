package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner executes git commands. The default implementation shells
// out; tests inject a mock so workflows run without subprocesses.
type CommandRunner interface {
	// Run executes name with args in dir and returns trimmed stdout.
	// On failure the error message carries the command's stderr.
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands as blocking subprocesses.
type ExecRunner struct{}

// NewExecRunner creates the default subprocess runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns trimmed stdout. A non-zero exit
// surfaces the captured stderr (falling back to stdout) in the error.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		if errMsg == "" {
			errMsg = err.Error()
		}
		return errMsg, fmt.Errorf("%s", errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RecordedCall is one command observed by a MockRunner.
type RecordedCall struct {
	Dir  string
	Name string
	Args []string
}

// MockRunner is a CommandRunner for tests. Responses are keyed by the
// first argument (the git subcommand); unmatched commands succeed with
// empty output.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     []RecordedCall
}

type mockResponse struct {
	output string
	err    error
}

// NewMockRunner creates an empty mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string]mockResponse)}
}

// Respond sets the canned response for a git subcommand.
func (m *MockRunner) Respond(subcommand, output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[subcommand] = mockResponse{output: output, err: err}
}

// Run records the call and returns the canned response.
func (m *MockRunner) Run(dir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, RecordedCall{Dir: dir, Name: name, Args: args})

	if len(args) > 0 {
		if resp, ok := m.responses[args[0]]; ok {
			return resp.output, resp.err
		}
	}
	return "", nil
}

// Calls returns all commands run so far.
func (m *MockRunner) Calls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedCall{}, m.calls...)
}

// CallsTo returns the recorded calls whose subcommand matches.
func (m *MockRunner) CallsTo(subcommand string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []RecordedCall
	for _, c := range m.calls {
		if len(c.Args) > 0 && c.Args[0] == subcommand {
			matched = append(matched, c)
		}
	}
	return matched
}
