package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/pullchain/internal/catalog"
	"github.com/mikanfactory/pullchain/internal/engine"
	"github.com/mikanfactory/pullchain/internal/grid"
	"github.com/mikanfactory/pullchain/internal/model"
	"github.com/mikanfactory/pullchain/internal/picker"
)

// SyncDoneMsg is sent when the sync engine has finished a run.
type SyncDoneMsg struct {
	Outcome engine.Outcome
}

type phase int

const (
	phaseGrid phase = iota
	phasePicking
	phaseSyncing
	phaseResult
)

// Model is the BubbleTea model for the branch-pair grid.
type Model struct {
	config  model.Config
	catalog catalog.Catalog
	rows    *grid.Rows
	focus   *grid.Controller
	picker  picker.Model
	engine  *engine.Engine
	spinner spinner.Model
	keys    KeyMap

	phase    phase
	outcome  engine.Outcome
	synced   bool
	notice   string
	width    int
	height   int
	quitting bool
}

// NewModel creates the grid over cat with one default row. Start runs the
// rows through eng.
func NewModel(cfg model.Config, cat catalog.Catalog, eng *engine.Engine) Model {
	rows := grid.NewRows(cfg.MaxRows, cat.Len())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		config:  cfg,
		catalog: cat,
		rows:    rows,
		focus:   grid.NewController(rows),
		engine:  eng,
		spinner: sp,
		keys:    DefaultKeyMap(),
	}
}

// Outcome returns the result of the last sync run. ok is false when the
// program ended without running one.
func (m Model) Outcome() (outcome engine.Outcome, ok bool) {
	return m.outcome, m.synced
}

// Rows returns the row list being edited.
func (m Model) Rows() *grid.Rows {
	return m.rows
}

// Focus returns the active focus state.
func (m Model) Focus() grid.Focus {
	return m.focus.Focus()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		return m, nil
	}

	switch m.phase {
	case phasePicking:
		return m.updatePicking(msg)
	case phaseSyncing:
		return m.updateSyncing(msg)
	case phaseResult:
		return m.updateResult(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		in, ok := m.keys.InputFor(msg)
		if !ok {
			return m, nil
		}
		return m.apply(in)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.click(msg)
	}

	return m, nil
}

// apply feeds one input to the focus controller and carries out the
// resulting action.
func (m Model) apply(in grid.Input) (tea.Model, tea.Cmd) {
	m.notice = ""
	if in == grid.InputConfirm && m.focus.Focus() == grid.AddRowButton && m.rows.Full() {
		m.notice = fmt.Sprintf("Row limit reached (%d).", m.rows.Max())
	}

	switch m.focus.Handle(in) {
	case grid.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case grid.ActionOpenPicker:
		return m.openPicker(), nil
	case grid.ActionStartSync:
		return m.startSync()
	}
	return m, nil
}

func (m Model) click(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	for r := 0; r < m.rows.Len(); r++ {
		for _, col := range []model.Column{model.ColumnCheckout, model.ColumnPullFrom} {
			if zone.Get(CellZoneID(r, col)).InBounds(msg) {
				if err := m.focus.FocusCell(r, col); err != nil {
					return m, nil
				}
				return m.openPicker(), nil
			}
		}
	}

	if zone.Get(addRowZoneID).InBounds(msg) {
		_ = m.focus.FocusButton(grid.TargetAddRow)
		return m.apply(grid.InputConfirm)
	}
	if zone.Get(startZoneID).InBounds(msg) {
		_ = m.focus.FocusButton(grid.TargetStart)
		return m.apply(grid.InputConfirm)
	}
	return m, nil
}

func (m Model) openPicker() Model {
	initial, ok := m.focus.Selected()
	if !ok {
		return m
	}
	names := m.catalog.Names()
	m.picker = picker.New(names, initial, m.config.PickerHeight, m.config.QueryLimit, picker.Width(names, m.width))
	m.phase = phasePicking
	return m
}

func (m Model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case picker.ResultMsg:
		if msg.Confirmed {
			if err := m.focus.Commit(msg.Index); err != nil {
				m.notice = err.Error()
			}
		}
		m.phase = phaseGrid
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) startSync() (tea.Model, tea.Cmd) {
	m.phase = phaseSyncing
	return m, tea.Batch(m.spinner.Tick, syncCmd(m.engine, m.rows.Snapshot(), m.catalog))
}

func (m Model) updateSyncing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SyncDoneMsg:
		m.outcome = msg.Outcome
		m.synced = true
		m.phase = phaseResult
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// No input is accepted while git runs.
	return m, nil
}

// updateResult waits for the operator to acknowledge the outcome. A
// completed run ends the program; an aborted one returns to the grid so
// the rows can be fixed and started again.
func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m, nil
	}

	if m.outcome.Completed() {
		m.quitting = true
		return m, tea.Quit
	}

	m.phase = phaseGrid
	_ = m.focus.FocusButton(grid.TargetStart)
	return m, nil
}

func syncCmd(eng *engine.Engine, rows []model.Row, names engine.BranchNames) tea.Cmd {
	return func() tea.Msg {
		return SyncDoneMsg{Outcome: eng.Run(rows, names)}
	}
}

// CellZoneID returns the bubblezone ID for a grid cell.
func CellZoneID(row int, col model.Column) string {
	return fmt.Sprintf("cell-%d-%d", row, col)
}

const (
	addRowZoneID = "add-row"
	startZoneID  = "start"
)
