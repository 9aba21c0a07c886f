package git

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// CommandRunner abstracts git command execution for testability.
// Run returns whatever the command wrote to stdout, even when it fails.
type CommandRunner interface {
	Run(dir string, args ...string) (string, error)
}

// ExitError describes a git invocation that did not succeed.
// Code is -1 when the process could not be started at all.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %v failed: %s", e.Args, e.Stderr)
	}
	return fmt.Sprintf("git %v failed: %v", e.Args, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the process exit status from an error returned by a CommandRunner.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// OSCommandRunner executes real git commands via os/exec.
// Calls block until git exits; no timeout is applied, so a git process
// waiting on credentials or a slow remote blocks the caller indefinitely.
type OSCommandRunner struct {
	Logger *log.Logger
}

func (r OSCommandRunner) Run(dir string, args ...string) (string, error) {
	if r.Logger != nil {
		r.Logger.Printf("[git] %s$ git %s", dir, strings.Join(args, " "))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return stdout.String(), &ExitError{
		Args:   args,
		Code:   code,
		Stderr: strings.TrimSpace(stderr.String()),
		Err:    err,
	}
}

// FakeCommandRunner is a test double that returns preset output and records calls.
// When a key has both an output and an error, both are returned.
type FakeCommandRunner struct {
	Outputs map[string]string
	Errors  map[string]error
	Calls   [][]string
}

func (r *FakeCommandRunner) key(dir string, args ...string) string {
	return fmt.Sprintf("%s:%v", dir, args)
}

func (r *FakeCommandRunner) Run(dir string, args ...string) (string, error) {
	r.Calls = append(r.Calls, append([]string{dir}, args...))
	key := r.key(dir, args...)
	out, hasOut := r.Outputs[key]
	if err, ok := r.Errors[key]; ok {
		return out, err
	}
	if hasOut {
		return out, nil
	}
	return "", fmt.Errorf("FakeCommandRunner: no output for key %q", key)
}
