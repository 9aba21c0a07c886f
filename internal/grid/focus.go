// Package grid owns the row list and the keyboard focus that moves over it.
package grid

import (
	"fmt"

	"github.com/mikanfactory/pullchain/internal/model"
)

// Target identifies which kind of widget holds focus.
type Target int

const (
	TargetCell Target = iota
	TargetAddRow
	TargetStart
)

// Focus is the active focus state. Row and Column are meaningful only
// when Target is TargetCell.
type Focus struct {
	Target Target
	Row    int
	Column model.Column
}

// Cell returns the focus state for a grid cell.
func Cell(row int, col model.Column) Focus {
	return Focus{Target: TargetCell, Row: row, Column: col}
}

var (
	AddRowButton = Focus{Target: TargetAddRow}
	StartButton  = Focus{Target: TargetStart}
)

func (f Focus) String() string {
	switch f.Target {
	case TargetCell:
		return fmt.Sprintf("Cell(%d, %s)", f.Row, f.Column)
	case TargetAddRow:
		return "AddRowButton"
	case TargetStart:
		return "StartButton"
	default:
		return "Unknown"
	}
}

// Input is a navigation input understood by the controller.
type Input int

const (
	InputUp Input = iota
	InputDown
	InputSwitchColumn
	InputConfirm
	InputQuit
)

// Action tells the caller what to do after an input was applied.
type Action int

const (
	ActionNone Action = iota
	ActionOpenPicker
	ActionStartSync
	ActionQuit
)

// Controller is the focus state machine over the grid cells and the two
// buttons below them.
type Controller struct {
	focus Focus
	rows  *Rows
}

// NewController starts with focus on the first row's checkout cell.
func NewController(rows *Rows) *Controller {
	return &Controller{focus: Cell(0, model.ColumnCheckout), rows: rows}
}

// Focus returns the active focus state.
func (c *Controller) Focus() Focus {
	return c.focus
}

// Rows returns the row list the controller navigates.
func (c *Controller) Rows() *Rows {
	return c.rows
}

// Handle applies one input and returns the action the caller must perform.
func (c *Controller) Handle(in Input) Action {
	if in == InputQuit {
		return ActionQuit
	}

	switch c.focus.Target {
	case TargetCell:
		return c.handleCell(in)
	case TargetAddRow:
		return c.handleAddRow(in)
	case TargetStart:
		return c.handleStart(in)
	}
	return ActionNone
}

func (c *Controller) handleCell(in Input) Action {
	f := c.focus
	switch in {
	case InputUp:
		if f.Row > 0 {
			c.focus = Cell(f.Row-1, f.Column)
		}
	case InputDown:
		if f.Row+1 < c.rows.Len() {
			c.focus = Cell(f.Row+1, f.Column)
		} else {
			c.focus = AddRowButton
		}
	case InputSwitchColumn:
		c.focus = Cell(f.Row, f.Column.Other())
	case InputConfirm:
		return ActionOpenPicker
	}
	return ActionNone
}

func (c *Controller) handleAddRow(in Input) Action {
	switch in {
	case InputUp:
		c.focus = Cell(c.rows.Len()-1, model.ColumnCheckout)
	case InputDown:
		c.focus = StartButton
	case InputConfirm:
		// A full row list silently ignores the request.
		_ = c.rows.Append()
	}
	return ActionNone
}

func (c *Controller) handleStart(in Input) Action {
	switch in {
	case InputUp:
		c.focus = AddRowButton
	case InputConfirm:
		return ActionStartSync
	}
	return ActionNone
}

// FocusCell moves focus directly to a cell, as a mouse click does. It
// rejects cells outside the grid.
func (c *Controller) FocusCell(row int, col model.Column) error {
	if row < 0 || row >= c.rows.Len() {
		return fmt.Errorf("row %d out of range [0,%d)", row, c.rows.Len())
	}
	c.focus = Cell(row, col)
	return nil
}

// FocusButton moves focus directly to the Add Row or Start button.
func (c *Controller) FocusButton(target Target) error {
	switch target {
	case TargetAddRow:
		c.focus = AddRowButton
	case TargetStart:
		c.focus = StartButton
	default:
		return fmt.Errorf("target %d is not a button", target)
	}
	return nil
}

// Selected returns the catalog index held by the focused cell.
// ok is false when focus is on a button.
func (c *Controller) Selected() (index int, ok bool) {
	if c.focus.Target != TargetCell {
		return 0, false
	}
	return c.rows.Get(c.focus.Row, c.focus.Column), true
}

// Commit writes a picker result into the focused cell.
func (c *Controller) Commit(index int) error {
	if c.focus.Target != TargetCell {
		return fmt.Errorf("focus %s is not a cell", c.focus)
	}
	return c.rows.Set(c.focus.Row, c.focus.Column, index)
}
