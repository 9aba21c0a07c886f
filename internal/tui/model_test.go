package tui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/pullchain/internal/catalog"
	"github.com/mikanfactory/pullchain/internal/config"
	"github.com/mikanfactory/pullchain/internal/engine"
	"github.com/mikanfactory/pullchain/internal/grid"
	"github.com/mikanfactory/pullchain/internal/model"
	"github.com/mikanfactory/pullchain/internal/picker"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type stageCall struct {
	stage  model.Stage
	branch string
}

type fakeProcessRunner struct {
	results map[int]engine.Result
	calls   []stageCall
}

func (f *fakeProcessRunner) Run(stage model.Stage, branch string) engine.Result {
	n := len(f.calls)
	f.calls = append(f.calls, stageCall{stage, branch})
	return f.results[n]
}

func testModel(runner engine.ProcessRunner) Model {
	cfg := config.Default()
	cat := catalog.New([]string{"main", "dev", "release"}, cfg.MaxBranches)
	eng := engine.NewEngine(runner, engine.Options{Remote: cfg.Remote, ConflictMarker: cfg.ConflictMarker})
	return NewModel(cfg, cat, eng)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	updated, ok := result.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", result)
	}
	return updated, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestNewModel(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	if m.Rows().Len() != 1 {
		t.Errorf("rows = %d, want 1", m.Rows().Len())
	}
	if m.Rows().Max() != config.DefaultMaxRows {
		t.Errorf("max rows = %d, want %d", m.Rows().Max(), config.DefaultMaxRows)
	}
	if m.Focus() != grid.Cell(0, model.ColumnCheckout) {
		t.Errorf("focus = %v, want Cell(0, Checkout)", m.Focus())
	}
	if m.Init() != nil {
		t.Error("Init() should not start any command")
	}
	if _, ok := m.Outcome(); ok {
		t.Error("no sync has run yet")
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, keyTab)
	if m.Focus() != grid.Cell(0, model.ColumnPullFrom) {
		t.Fatalf("after tab focus = %v", m.Focus())
	}

	m, _ = update(t, m, keyRunes("j"))
	if m.Focus() != grid.AddRowButton {
		t.Fatalf("after j focus = %v, want AddRowButton", m.Focus())
	}

	m, _ = update(t, m, keyDown)
	if m.Focus() != grid.StartButton {
		t.Fatalf("after down focus = %v, want StartButton", m.Focus())
	}

	m, _ = update(t, m, keyUp)
	m, _ = update(t, m, keyRunes("k"))
	if m.Focus() != grid.Cell(0, model.ColumnCheckout) {
		t.Errorf("focus = %v, want Cell(0, Checkout)", m.Focus())
	}
}

func TestUpdate_UnboundKeyIsNoop(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, cmd := update(t, m, keyRunes("x"))
	if cmd != nil {
		t.Error("unbound key should not return a command")
	}
	if m.Focus() != grid.Cell(0, model.ColumnCheckout) {
		t.Errorf("focus moved to %v", m.Focus())
	}
}

func TestUpdate_AddRow(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, keyDown)
	m, _ = update(t, m, keyEnter)
	m, _ = update(t, m, keyEnter)

	if m.Rows().Len() != 3 {
		t.Errorf("rows = %d, want 3", m.Rows().Len())
	}
	if m.Focus() != grid.AddRowButton {
		t.Errorf("focus = %v, want AddRowButton", m.Focus())
	}
	if got := m.Rows().At(2); got != (model.Row{}) {
		t.Errorf("new row = %+v, want defaults", got)
	}
}

func TestUpdate_AddRowAtLimit(t *testing.T) {
	m := testModel(&fakeProcessRunner{})
	m.config.MaxRows = 2
	m.rows = grid.NewRows(2, m.catalog.Len())
	m.focus = grid.NewController(m.rows)

	m, _ = update(t, m, keyDown)
	m, _ = update(t, m, keyEnter)
	if m.notice != "" {
		t.Errorf("notice = %q, want none before the limit", m.notice)
	}

	m, _ = update(t, m, keyEnter)
	if m.Rows().Len() != 2 {
		t.Errorf("rows = %d, want 2", m.Rows().Len())
	}
	if m.notice == "" {
		t.Error("expected a row limit notice")
	}

	m, _ = update(t, m, keyDown)
	if m.notice != "" {
		t.Error("notice should clear on the next input")
	}
}

func TestUpdate_PickerCommitsSelection(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, keyTab)
	m, _ = update(t, m, keyEnter)
	if m.phase != phasePicking {
		t.Fatalf("phase = %v, want picking", m.phase)
	}

	m, _ = update(t, m, keyRunes("rel"))
	m, cmd := update(t, m, keyEnter)
	if cmd == nil {
		t.Fatal("confirm should return a command")
	}
	msg := cmd()
	res, ok := msg.(picker.ResultMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want picker.ResultMsg", msg)
	}

	m, _ = update(t, m, res)
	if m.phase != phaseGrid {
		t.Errorf("phase = %v, want grid", m.phase)
	}
	if got := m.Rows().Get(0, model.ColumnPullFrom); got != 2 {
		t.Errorf("pull index = %d, want 2", got)
	}
	if got := m.Rows().Get(0, model.ColumnCheckout); got != 0 {
		t.Errorf("checkout index = %d, want 0", got)
	}
	if m.Focus() != grid.Cell(0, model.ColumnPullFrom) {
		t.Errorf("focus = %v, want Cell(0, Pull From)", m.Focus())
	}
}

func TestUpdate_PickerCancelKeepsSelection(t *testing.T) {
	m := testModel(&fakeProcessRunner{})
	if err := m.Rows().Set(0, model.ColumnCheckout, 1); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, keyEnter)
	m, _ = update(t, m, keyRunes("ma"))
	m, cmd := update(t, m, keyEsc)
	if cmd == nil {
		t.Fatal("cancel should return a command")
	}
	m, _ = update(t, m, cmd())

	if got := m.Rows().Get(0, model.ColumnCheckout); got != 1 {
		t.Errorf("checkout index = %d, want 1 after cancel", got)
	}
	if m.phase != phaseGrid {
		t.Errorf("phase = %v, want grid", m.phase)
	}
}

func TestUpdate_QInsidePickerIsTyped(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, keyEnter)
	m, cmd := update(t, m, keyRunes("q"))

	if m.quitting {
		t.Error("q inside the picker should not quit")
	}
	if cmd != nil {
		t.Error("typing should not return a command")
	}
	if got := m.picker.Session().Query(); got != "q" {
		t.Errorf("query = %q, want %q", got, "q")
	}
}

func TestUpdate_CtrlCInsidePickerQuits(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, keyEnter)
	m, cmd := update(t, m, keyCtrlC)

	if !m.quitting {
		t.Error("quitting should be true")
	}
	if cmd == nil {
		t.Error("expected tea.Quit cmd")
	}
}

func TestUpdate_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyRunes("q"), keyCtrlC} {
		t.Run(msg.String(), func(t *testing.T) {
			runner := &fakeProcessRunner{}
			m := testModel(runner)
			m, _ = update(t, m, keyDown)

			m, cmd := update(t, m, msg)
			if !m.quitting {
				t.Error("quitting should be true")
			}
			if cmd == nil {
				t.Error("expected tea.Quit cmd")
			}
			if len(runner.calls) != 0 {
				t.Errorf("quit ran %d git stages", len(runner.calls))
			}
			if _, ok := m.Outcome(); ok {
				t.Error("quit should not record a sync outcome")
			}
		})
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := testModel(&fakeProcessRunner{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.width != 100 || m.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", m.width, m.height)
	}
}

func startSync(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, keyDown)
	m, _ = update(t, m, keyDown)
	m, cmd := update(t, m, keyEnter)
	if m.phase != phaseSyncing {
		t.Fatalf("phase = %v, want syncing", m.phase)
	}
	if cmd == nil {
		t.Fatal("start should return a command")
	}
	return m, cmd
}

func TestUpdate_StartSyncIgnoresInput(t *testing.T) {
	m, _ := startSync(t, testModel(&fakeProcessRunner{}))

	for _, msg := range []tea.KeyMsg{keyCtrlC, keyRunes("q"), keyUp} {
		var cmd tea.Cmd
		m, cmd = update(t, m, msg)
		if cmd != nil || m.quitting {
			t.Errorf("%s during sync should be ignored", msg)
		}
	}
	if m.phase != phaseSyncing {
		t.Errorf("phase = %v, want syncing", m.phase)
	}
}

func TestSyncCmd_RunsEngine(t *testing.T) {
	runner := &fakeProcessRunner{}
	m := testModel(runner)
	if err := m.Rows().Set(0, model.ColumnCheckout, 1); err != nil {
		t.Fatal(err)
	}

	msg := syncCmd(m.engine, m.Rows().Snapshot(), m.catalog)()
	done, ok := msg.(SyncDoneMsg)
	if !ok {
		t.Fatalf("syncCmd returned %T, want SyncDoneMsg", msg)
	}
	if !done.Outcome.Completed() {
		t.Errorf("outcome aborted: %v", done.Outcome.Abort)
	}

	want := []stageCall{
		{model.StageCheckout, "dev"},
		{model.StageSelfPull, "dev"},
		{model.StageCrossPull, "main"},
		{model.StagePush, "dev"},
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", runner.calls, want)
	}
	for i := range want {
		if runner.calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, runner.calls[i], want[i])
		}
	}
}

func TestSync_AbortReturnsToGrid(t *testing.T) {
	runner := &fakeProcessRunner{results: map[int]engine.Result{
		2: {Output: []string{"Auto-merging a.txt", "CONFLICT (content): Merge conflict in a.txt"}},
	}}
	m := testModel(runner)
	if err := m.Rows().Set(0, model.ColumnCheckout, 1); err != nil {
		t.Fatal(err)
	}

	m, _ = startSync(t, m)
	msg := syncCmd(m.engine, m.Rows().Snapshot(), m.catalog)()
	m, _ = update(t, m, msg)

	if m.phase != phaseResult {
		t.Fatalf("phase = %v, want result", m.phase)
	}
	outcome, ok := m.Outcome()
	if !ok || outcome.Completed() {
		t.Fatalf("outcome = %+v, want abort", outcome)
	}

	view := m.View()
	if !contains(view, "Conflict detected while pulling from main into dev") {
		t.Errorf("view should show the failure message:\n%s", view)
	}
	if contains(view, "Sync complete.") {
		t.Error("an aborted run must not show the completion message")
	}

	m, cmd := update(t, m, keyRunes("x"))
	if cmd != nil || m.quitting {
		t.Error("acknowledging an abort should not exit")
	}
	if m.phase != phaseGrid {
		t.Errorf("phase = %v, want grid", m.phase)
	}
	if m.Focus() != grid.StartButton {
		t.Errorf("focus = %v, want StartButton", m.Focus())
	}
	if got := m.Rows().Get(0, model.ColumnCheckout); got != 1 {
		t.Errorf("rows were modified by the sync: checkout index = %d", got)
	}
}

func TestSync_CompletedExits(t *testing.T) {
	m, _ := startSync(t, testModel(&fakeProcessRunner{}))

	m, _ = update(t, m, SyncDoneMsg{Outcome: engine.Outcome{}})
	if !contains(m.View(), "Sync complete.") {
		t.Errorf("view should show the completion message:\n%s", m.View())
	}

	m, cmd := update(t, m, keyEnter)
	if !m.quitting {
		t.Error("quitting should be true")
	}
	if cmd == nil {
		t.Error("expected tea.Quit cmd")
	}
	outcome, ok := m.Outcome()
	if !ok || !outcome.Completed() {
		t.Errorf("outcome = %+v, want completed", outcome)
	}
}

func TestSync_ResultIgnoresNonKeyMessages(t *testing.T) {
	m, _ := startSync(t, testModel(&fakeProcessRunner{}))
	m, _ = update(t, m, SyncDoneMsg{})

	m, cmd := update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion})
	if cmd != nil || m.phase != phaseResult {
		t.Error("mouse motion should not dismiss the result")
	}
}
