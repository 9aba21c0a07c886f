package git

import (
	"strings"

	"github.com/mikanfactory/pullchain/internal/engine"
	"github.com/mikanfactory/pullchain/internal/model"
)

// StageRunner runs the git command for each sync stage inside a repository.
type StageRunner struct {
	Runner   CommandRunner
	RepoPath string
	Remote   string
}

// Args returns the git arguments used for stage against branch.
func (s StageRunner) Args(stage model.Stage, branch string) []string {
	switch stage {
	case model.StageCheckout:
		return []string{"checkout", branch}
	case model.StageSelfPull, model.StageCrossPull:
		return []string{"pull", s.Remote, branch}
	case model.StagePush:
		return []string{"push", s.Remote, branch}
	default:
		return nil
	}
}

func (s StageRunner) Run(stage model.Stage, branch string) engine.Result {
	out, err := s.Runner.Run(s.RepoPath, s.Args(stage, branch)...)
	return engine.Result{
		ExitCode: ExitCode(err),
		Output:   splitLines(out),
		Err:      err,
	}
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
