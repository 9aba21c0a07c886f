package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/pullchain/internal/grid"
	"github.com/mikanfactory/pullchain/internal/model"
)

const (
	headerText       = "Arrows/TAB to move, Enter to select, q to quit."
	checkoutHeader   = "[ Checkout ]"
	pullFromHeader   = "[ Pull From ]"
	addRowLabel      = "[ + Add Row ]"
	startLabel       = "[   START   ]"
	maxColumnWidth   = 40
	outputTailLength = 5
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var view string
	switch m.phase {
	case phasePicking:
		view = m.viewPicker()
	case phaseSyncing:
		view = m.viewSyncing()
	case phaseResult:
		view = m.viewResult()
	default:
		view = m.viewGrid()
	}
	return zone.Scan(view)
}

func (m Model) viewGrid() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(headerText))
	b.WriteString("\n")

	width := m.columnWidth()
	focus := m.focus.Focus()

	b.WriteString("    ")
	b.WriteString(columnHeaderStyle.Render(pad(checkoutHeader, width)))
	b.WriteString("  ")
	b.WriteString(columnHeaderStyle.Render(pad(pullFromHeader, width)))
	b.WriteString("\n")

	for r := 0; r < m.rows.Len(); r++ {
		b.WriteString(rowNumberStyle.Render(fmt.Sprintf("%3d ", r+1)))
		b.WriteString(m.renderCell(r, model.ColumnCheckout, width, focus))
		b.WriteString("  ")
		b.WriteString(m.renderCell(r, model.ColumnPullFrom, width, focus))
		b.WriteString("\n")
	}

	b.WriteString("\n    ")
	b.WriteString(zone.Mark(addRowZoneID, renderButton(addRowLabel, focus == grid.AddRowButton)))
	b.WriteString(" ")
	b.WriteString(FormatRowCount(m.rows.Len(), m.rows.Max()))
	b.WriteString("\n    ")
	b.WriteString(zone.Mark(startZoneID, renderButton(startLabel, focus == grid.StartButton)))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑↓/jk: move  tab/←→: column  enter: select  q: quit"))

	return b.String()
}

func (m Model) renderCell(row int, col model.Column, width int, focus grid.Focus) string {
	name := m.catalog.Name(m.rows.Get(row, col))
	text := pad(name, width)

	style := cellStyle
	if focus == grid.Cell(row, col) {
		style = cellFocusedStyle
	}
	return zone.Mark(CellZoneID(row, col), style.Render(text))
}

func renderButton(label string, focused bool) string {
	if focused {
		return buttonFocusedStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

// columnWidth fits the longest branch name, within bounds.
func (m Model) columnWidth() int {
	width := lipgloss.Width(pullFromHeader)
	for _, name := range m.catalog.Names() {
		width = max(width, lipgloss.Width(name))
	}
	return min(width, maxColumnWidth)
}

func (m Model) viewPicker() string {
	overlay := m.picker.View()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return titleStyle.Render(headerText) + "\n" + overlay
}

func (m Model) viewSyncing() string {
	return fmt.Sprintf("\n %s Syncing %d row(s)...", m.spinner.View(), m.rows.Len())
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.outcome.Completed() {
		b.WriteString(successStyle.Render("Sync complete."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Press any key to exit."))
		return b.String()
	}

	abort := m.outcome.Abort
	b.WriteString(failureStyle.Render(abort.Message()))
	b.WriteString("\n")
	b.WriteString(rowNumberStyle.Render(fmt.Sprintf("   row %d, %s", abort.Row+1, abort.Stage)))
	b.WriteString("\n")

	output := abort.Output
	if len(output) > outputTailLength {
		output = output[len(output)-outputTailLength:]
	}
	for _, line := range output {
		b.WriteString(outputStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Press any key to return to the grid."))
	return b.String()
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
