package grid

import (
	"errors"
	"fmt"

	"github.com/mikanfactory/pullchain/internal/model"
)

// ErrRowLimit is returned by Append when the row list is full.
var ErrRowLimit = errors.New("row limit reached")

// Rows is the growable, ordered list of checkout/pull pairs. It always
// holds at least one row and never more than its maximum.
type Rows struct {
	rows    []model.Row
	max     int
	catalog int
}

// NewRows creates a row list with a single default row. catalogLen is the
// number of catalog entries indices must stay below.
func NewRows(max, catalogLen int) *Rows {
	if max < 1 {
		max = 1
	}
	if catalogLen < 1 {
		catalogLen = 1
	}
	return &Rows{
		rows:    []model.Row{{}},
		max:     max,
		catalog: catalogLen,
	}
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return len(r.rows)
}

// Max returns the row capacity.
func (r *Rows) Max() int {
	return r.max
}

// Full reports whether Append would be rejected.
func (r *Rows) Full() bool {
	return len(r.rows) >= r.max
}

// Append adds a row with both indices at 0.
func (r *Rows) Append() error {
	if r.Full() {
		return ErrRowLimit
	}
	r.rows = append(r.rows, model.Row{})
	return nil
}

// At returns the row at index i.
func (r *Rows) At(i int) model.Row {
	return r.rows[i]
}

// Get returns the catalog index stored in the given cell.
func (r *Rows) Get(row int, col model.Column) int {
	if col == model.ColumnCheckout {
		return r.rows[row].CheckoutIndex
	}
	return r.rows[row].PullIndex
}

// Set stores a catalog index in the given cell.
func (r *Rows) Set(row int, col model.Column, index int) error {
	if row < 0 || row >= len(r.rows) {
		return fmt.Errorf("row %d out of range [0,%d)", row, len(r.rows))
	}
	if index < 0 || index >= r.catalog {
		return fmt.Errorf("branch index %d out of range [0,%d)", index, r.catalog)
	}
	if col == model.ColumnCheckout {
		r.rows[row].CheckoutIndex = index
	} else {
		r.rows[row].PullIndex = index
	}
	return nil
}

// Snapshot returns a copy of the rows for a sync run.
func (r *Rows) Snapshot() []model.Row {
	out := make([]model.Row, len(r.rows))
	copy(out, r.rows)
	return out
}
