package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// ResultMsg is sent when the picker closes. Index is the chosen catalog
// index on confirm, or the index the picker was opened with on cancel.
type ResultMsg struct {
	Index     int
	Confirmed bool
}

// KeyMap defines the picker's key bindings. Letters are never bound so
// they always reach the query.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

// DefaultKeyMap returns the standard picker bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("⌫", "delete")),
	}
}

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#89b4fa"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4"))

	highlightStyle = lipgloss.NewStyle().
			Reverse(true)

	noMatchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Italic(true)
)

// Model is the bubbletea overlay wrapping a Session.
type Model struct {
	session *Session
	keys    KeyMap
	width   int
	done    bool
}

// New opens a picker. height is the window height including its border.
func New(candidates []string, initial, height, limit, width int) Model {
	return Model{
		session: NewSession(candidates, initial, height-2, limit),
		keys:    DefaultKeyMap(),
		width:   width,
	}
}

// Width returns the overlay width for the longest candidate, clamped to
// at least 30 columns and at most termWidth-4.
func Width(candidates []string, termWidth int) int {
	longest := 0
	for _, c := range candidates {
		longest = max(longest, lipgloss.Width(c))
	}
	w := longest + 6
	if termWidth > 0 && w > termWidth-4 {
		w = termWidth - 4
	}
	return max(w, 30)
}

// Session exposes the underlying filter state.
func (m Model) Session() *Session {
	return m.session
}

// Done reports whether the picker has already produced its result.
func (m Model) Done() bool {
	return m.done
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for row := range m.session.Visible() {
			if zone.Get(ItemZoneID(row)).InBounds(msg) {
				m.session.Select(row)
				return m, nil
			}
		}
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.session.Up()
	case key.Matches(msg, m.keys.Down):
		m.session.Down()
	case key.Matches(msg, m.keys.Confirm):
		idx, ok := m.session.Confirm()
		if !ok {
			return m, nil
		}
		m.done = true
		return m, result(idx, true)
	case key.Matches(msg, m.keys.Cancel):
		m.done = true
		return m, result(m.session.Cancel(), false)
	case key.Matches(msg, m.keys.Backspace):
		m.session.Backspace()
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		for _, r := range msg.Runes {
			m.session.Type(r)
		}
	}
	return m, nil
}

func result(idx int, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Index: idx, Confirmed: confirmed}
	}
}

// ItemZoneID returns the bubblezone ID of a visible list row.
func ItemZoneID(row int) string {
	return fmt.Sprintf("picker-item-%d", row)
}

func (m Model) View() string {
	inner := m.width - 2
	if inner < 1 {
		inner = 1
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render("Filter: ") + m.session.Query())

	entries := m.session.Visible()
	for row := 0; row < m.session.Height(); row++ {
		b.WriteString("\n")
		if row >= len(entries) {
			b.WriteString(strings.Repeat(" ", inner))
			continue
		}
		e := entries[row]
		text := pad(e.Name, inner)
		switch {
		case e.Index == NoMatch:
			b.WriteString(noMatchStyle.Render(text))
		case e.Highlighted:
			b.WriteString(zone.Mark(ItemZoneID(row), highlightStyle.Render(text)))
		default:
			b.WriteString(zone.Mark(ItemZoneID(row), itemStyle.Render(text)))
		}
	}

	return borderStyle.Width(inner).Render(b.String())
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
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
