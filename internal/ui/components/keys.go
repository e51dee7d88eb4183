package components

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/xpquest/internal/ui/layout"
)

// KeyMap holds every binding the screens respond to.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Next   key.Binding
	Prev   key.Binding
	Reset  key.Binding
	Retry  key.Binding
	Reload key.Binding
	Back   key.Binding
}

// Keys is the shared key map.
var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "Up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "Down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", "space"),
		key.WithHelp("Enter", "Select"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/n", "Next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←/p", "Previous"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+R", "Reset"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("R", "Retry"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("R", "Reload"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "Back"),
	),
}

// Hints converts bindings to footer hints, skipping disabled ones.
func Hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
