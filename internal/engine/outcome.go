package engine

import (
	"errors"
	"fmt"

	"github.com/mikanfactory/pullchain/internal/model"
)

// Abort reasons. Every one of them ends the run; none is retried.
var (
	ErrCheckout      = errors.New("checkout failed")
	ErrSelfPull      = errors.New("self-pull failed")
	ErrMergeConflict = errors.New("merge conflict")
	ErrCrossPull     = errors.New("cross-pull failed")
	ErrPush          = errors.New("push failed")
)

// Outcome is the result of a sync run. A nil Abort means every row completed.
type Outcome struct {
	Abort *Abort
}

// Completed reports whether every stage of every row succeeded.
func (o Outcome) Completed() bool {
	return o.Abort == nil
}

// Abort records where a run stopped and why.
type Abort struct {
	Row      int
	Stage    model.Stage
	Reason   error
	Checkout string
	Pull     string
	Remote   string
	ExitCode int
	Output   []string
	Cause    error
}

func (a *Abort) Error() string {
	return fmt.Sprintf("row %d: %s: %s", a.Row+1, a.Stage, a.Message())
}

func (a *Abort) Unwrap() error {
	return a.Reason
}

// Message returns the operator-facing description of the failure.
func (a *Abort) Message() string {
	switch a.Reason {
	case ErrCheckout:
		return fmt.Sprintf("Failed to checkout '%s'", a.Checkout)
	case ErrSelfPull:
		return fmt.Sprintf("Pull failed from %s/%s", a.Remote, a.Checkout)
	case ErrMergeConflict:
		return fmt.Sprintf("Conflict detected while pulling from %s into %s", a.Pull, a.Checkout)
	case ErrCrossPull:
		return fmt.Sprintf("Pull failed from %s/%s", a.Remote, a.Pull)
	case ErrPush:
		return fmt.Sprintf("Failed to push '%s' to %s", a.Checkout, a.Remote)
	default:
		return a.Reason.Error()
	}
}
