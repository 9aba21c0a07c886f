package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikanfactory/pullchain/internal/grid"
)

// KeyMap holds the grid bindings. The picker has its own.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the grid bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Switch: key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"), key.WithHelp("tab/←→", "column")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// InputFor maps a key press to a focus controller input. ok is false for
// keys the grid does not use.
func (k KeyMap) InputFor(msg tea.KeyMsg) (in grid.Input, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return grid.InputUp, true
	case key.Matches(msg, k.Down):
		return grid.InputDown, true
	case key.Matches(msg, k.Switch):
		return grid.InputSwitchColumn, true
	case key.Matches(msg, k.Enter):
		return grid.InputConfirm, true
	case key.Matches(msg, k.Quit):
		return grid.InputQuit, true
	}
	return 0, false
}
