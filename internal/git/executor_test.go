package git

import (
	"fmt"
	"testing"
)

func TestOSCommandRunner_GitVersion(t *testing.T) {
	runner := OSCommandRunner{}
	out, err := runner.Run(".", "--version")
	if err != nil {
		t.Fatalf("git --version failed: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty output from git --version")
	}
}

func TestOSCommandRunner_ExitCode(t *testing.T) {
	runner := OSCommandRunner{}
	_, err := runner.Run(t.TempDir(), "rev-parse", "--verify", "refs/heads/does-not-exist")
	if err == nil {
		t.Fatal("expected error outside a repository, got nil")
	}
	if code := ExitCode(err); code <= 0 {
		t.Errorf("ExitCode() = %d, want a positive exit status", code)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exit error", &ExitError{Args: []string{"push"}, Code: 128}, 128},
		{"wrapped exit error", fmt.Errorf("pushing: %w", &ExitError{Code: 1}), 1},
		{"other error", fmt.Errorf("boom"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError_Message(t *testing.T) {
	err := &ExitError{Args: []string{"checkout", "dev"}, Code: 1, Stderr: "error: pathspec 'dev' did not match"}
	want := "git [checkout dev] failed: error: pathspec 'dev' did not match"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFakeCommandRunner_ReturnsOutput(t *testing.T) {
	runner := &FakeCommandRunner{
		Outputs: map[string]string{
			"/repo:[branch -r]": "  origin/main\n",
		},
	}

	out, err := runner.Run("/repo", "branch", "-r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "  origin/main\n" {
		t.Errorf("unexpected output: %q", out)
	}
	if len(runner.Calls) != 1 {
		t.Errorf("len(Calls) = %d, want 1", len(runner.Calls))
	}
}

func TestFakeCommandRunner_ReturnsOutputAndError(t *testing.T) {
	runner := &FakeCommandRunner{
		Outputs: map[string]string{
			"/repo:[pull origin main]": "CONFLICT (content): Merge conflict in a.go\n",
		},
		Errors: map[string]error{
			"/repo:[pull origin main]": &ExitError{Code: 1},
		},
	}

	out, err := runner.Run("/repo", "pull", "origin", "main")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if out == "" {
		t.Error("expected output alongside the error")
	}
}

func TestFakeCommandRunner_NoOutput(t *testing.T) {
	runner := &FakeCommandRunner{}

	_, err := runner.Run("/repo", "unknown")
	if err == nil {
		t.Fatal("expected error for missing key, got nil")
	}
}
