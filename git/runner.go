package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Result is the outcome of a command that ran to completion.
// A non-zero exit code is reported here, not as an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string

	// Kind is the recognized failure signature, set by Context.Exec when
	// the command exits non-zero. Empty when nothing was recognized.
	Kind ErrorKind
}

// CommandRunner executes external commands.
// Implementations return an error only when the command could not be run
// at all (binary missing, context canceled); a process that exits with a
// non-zero code yields a Result and a nil error.
type CommandRunner interface {
	Run(ctx context.Context, workDir, name string, args ...string) (*Result, error)
}

// CommandError reports a command that could not be executed.
type CommandError struct {
	Command string
	Args    []string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner. Stdout and stderr are captured separately.
func (r *ExecRunner) Run(ctx context.Context, workDir, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, &CommandError{
			Command: name,
			Args:    args,
			Output:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

// MockResponse is a scripted reply for MockRunner and SequentialMockRunner.
type MockResponse struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (m MockResponse) result() (*Result, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &Result{ExitCode: m.ExitCode, Stdout: m.Stdout, Stderr: m.Stderr}, nil
}

// MockCall records one invocation.
type MockCall struct {
	WorkDir string
	Command string
	Args    []string
}

// MockRunner replies by matching the command line against registered responses.
// Lookup order: exact "name args..." match, name-only match, wildcard, DefaultResponse.
type MockRunner struct {
	mu              sync.Mutex
	Responses       map[string]MockResponse
	DefaultResponse MockResponse
	Calls           []MockCall
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]MockResponse),
	}
}

// MockExpectation registers a response for a command line.
type MockExpectation struct {
	runner *MockRunner
	key    string
}

// OnCommand starts a response registration for the exact command line.
func (m *MockRunner) OnCommand(name string, args ...string) *MockExpectation {
	return &MockExpectation{runner: m, key: commandKey(name, args)}
}

// OnAnyCommand starts a wildcard response registration.
func (m *MockRunner) OnAnyCommand() *MockExpectation {
	return &MockExpectation{runner: m, key: "*"}
}

// Return registers a successful exit with stdout, or a run failure when err is set.
func (e *MockExpectation) Return(stdout string, err error) {
	e.runner.mu.Lock()
	defer e.runner.mu.Unlock()
	e.runner.Responses[e.key] = MockResponse{Stdout: stdout, Err: err}
}

// ReturnExit registers a completed run with the given exit code and output.
func (e *MockExpectation) ReturnExit(exitCode int, stdout, stderr string) {
	e.runner.mu.Lock()
	defer e.runner.mu.Unlock()
	e.runner.Responses[e.key] = MockResponse{ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// Run implements CommandRunner.
func (m *MockRunner) Run(_ context.Context, workDir, name string, args ...string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{WorkDir: workDir, Command: name, Args: args})

	if resp, ok := m.Responses[commandKey(name, args)]; ok {
		return resp.result()
	}
	if resp, ok := m.Responses[name]; ok {
		return resp.result()
	}
	if resp, ok := m.Responses["*"]; ok {
		return resp.result()
	}
	return m.DefaultResponse.result()
}

// WasCalled reports whether a call was made whose arguments start with args.
func (m *MockRunner) WasCalled(name string, args ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, call := range m.Calls {
		if call.Command == name && hasPrefix(call.Args, args) {
			return true
		}
	}
	return false
}

// CallCount returns how many calls were made to the named command.
func (m *MockRunner) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, call := range m.Calls {
		if call.Command == name {
			count++
		}
	}
	return count
}

// SequentialMockRunner replies with scripted responses in call order.
// It fails the call once the script is exhausted.
type SequentialMockRunner struct {
	mu        sync.Mutex
	responses []MockResponse
	next      int
	Calls     []MockCall
}

// NewSequentialMockRunner creates an empty script.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput appends a zero-exit reply, or a run failure when err is set.
func (s *SequentialMockRunner) AddOutput(stdout string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, MockResponse{Stdout: stdout, Err: err})
}

// AddExit appends a completed run with the given exit code and output.
func (s *SequentialMockRunner) AddExit(exitCode int, stdout, stderr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, MockResponse{ExitCode: exitCode, Stdout: stdout, Stderr: stderr})
}

// Run implements CommandRunner.
func (s *SequentialMockRunner) Run(_ context.Context, workDir, name string, args ...string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, MockCall{WorkDir: workDir, Command: name, Args: args})

	if s.next >= len(s.responses) {
		return nil, fmt.Errorf("unexpected command: %s", commandKey(name, args))
	}
	resp := s.responses[s.next]
	s.next++
	return resp.result()
}

// Remaining returns the number of scripted responses not yet consumed.
func (s *SequentialMockRunner) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses) - s.next
}

// CallArgs returns the arguments of every recorded call, in order.
func (s *SequentialMockRunner) CallArgs() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]string, len(s.Calls))
	for i, call := range s.Calls {
		out[i] = call.Args
	}
	return out
}

func commandKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func hasPrefix(actual, prefix []string) bool {
	if len(prefix) > len(actual) {
		return false
	}
	for i := range prefix {
		if actual[i] != prefix[i] {
			return false
		}
	}
	return true
}
