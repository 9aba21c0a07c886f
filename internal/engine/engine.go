// Package engine runs the checkout, self-pull, cross-pull and push workflow
// over every configured row, stopping the whole run at the first failure.
package engine

import (
	"log"
	"strings"

	"github.com/mikanfactory/pullchain/internal/model"
)

// Result is what a ProcessRunner reports for one stage invocation.
// Err is set when the process could not be run or exited non-zero.
type Result struct {
	ExitCode int
	Output   []string
	Err      error
}

// Failed reports whether the process did not complete successfully.
func (r Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// ProcessRunner executes the git operation for a stage against one branch.
// Each call blocks until the underlying process exits.
type ProcessRunner interface {
	Run(stage model.Stage, branch string) Result
}

// BranchNames resolves catalog indices to branch names.
type BranchNames interface {
	Name(index int) string
}

// Options configures an Engine.
type Options struct {
	Remote         string
	ConflictMarker string
}

// Engine drives a ProcessRunner through every row, strictly sequentially.
type Engine struct {
	runner ProcessRunner
	opts   Options
	logger *log.Logger
}

// NewEngine creates a sync engine.
func NewEngine(runner ProcessRunner, opts Options) *Engine {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.ConflictMarker == "" {
		opts.ConflictMarker = "CONFLICT"
	}
	return &Engine{runner: runner, opts: opts}
}

// SetLogger sets a logger for the engine. If nil, logging is disabled.
func (e *Engine) SetLogger(l *log.Logger) {
	e.logger = l
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf("[sync] "+format, args...)
	}
}

// Run executes all four stages for each row in order. The first failing
// stage ends the run: no later stage of that row and no later row is run.
func (e *Engine) Run(rows []model.Row, names BranchNames) Outcome {
	e.logf("starting run over %d row(s)", len(rows))

	for i, row := range rows {
		checkout := names.Name(row.CheckoutIndex)
		pull := names.Name(row.PullIndex)

		for _, stage := range model.Stages {
			branch := checkout
			if stage == model.StageCrossPull {
				branch = pull
			}

			e.logf("row %d: %s %s", i, stage, branch)
			res := e.runner.Run(stage, branch)

			reason := e.classify(stage, res)
			if reason == nil {
				continue
			}

			abort := &Abort{
				Row:      i,
				Stage:    stage,
				Reason:   reason,
				Checkout: checkout,
				Pull:     pull,
				Remote:   e.opts.Remote,
				ExitCode: res.ExitCode,
				Output:   res.Output,
				Cause:    res.Err,
			}
			e.logf("aborted: %v", abort)
			return Outcome{Abort: abort}
		}
	}

	e.logf("completed")
	return Outcome{}
}

func (e *Engine) classify(stage model.Stage, res Result) error {
	switch stage {
	case model.StageCheckout:
		if res.Failed() {
			return ErrCheckout
		}
	case model.StageSelfPull:
		if res.Failed() {
			return ErrSelfPull
		}
	case model.StageCrossPull:
		if HasConflictMarker(res.Output, e.opts.ConflictMarker) {
			return ErrMergeConflict
		}
		if res.Failed() {
			return ErrCrossPull
		}
	case model.StagePush:
		if res.Failed() {
			return ErrPush
		}
	}
	return nil
}

// HasConflictMarker reports whether any output line contains marker.
func HasConflictMarker(lines []string, marker string) bool {
	if marker == "" {
		return false
	}
	for _, line := range lines {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
