package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorFg         = lipgloss.Color("#cdd6f4")
	colorFgDim      = lipgloss.Color("#6c7086")
	colorAccent     = lipgloss.Color("#89b4fa")
	colorGreen      = lipgloss.Color("#a6e3a1")
	colorRed        = lipgloss.Color("#f38ba8")
	colorYellow     = lipgloss.Color("#f9e2af")
	colorActionItem = lipgloss.Color("#89dceb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			PaddingLeft(1).
			PaddingBottom(1)

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(colorFgDim).
				Bold(true)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	cellFocusedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Reverse(true)

	rowNumberStyle = lipgloss.NewStyle().
			Foreground(colorFgDim)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorActionItem)

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Reverse(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorFgDim).
			PaddingLeft(1).
			PaddingTop(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			PaddingLeft(1).
			PaddingTop(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true).
			PaddingLeft(1)

	failureStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true).
			PaddingLeft(1)

	outputStyle = lipgloss.NewStyle().
			Foreground(colorFgDim).
			PaddingLeft(3)
)

// FormatRowCount renders the "n/max rows" badge next to the Add Row button.
func FormatRowCount(n, max int) string {
	style := lipgloss.NewStyle().Foreground(colorFgDim)
	if n >= max {
		style = lipgloss.NewStyle().Foreground(colorYellow)
	}
	return style.Render(fmt.Sprintf("%d/%d rows", n, max))
}
