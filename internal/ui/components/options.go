package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/ui/theme"
)

// Mark is how a rendered option is highlighted after a choice.
type Mark int

const (
	MarkNone Mark = iota
	MarkCorrect
	MarkIncorrect
	MarkChosen
)

// OptionList is a vertical list of answer options with a cursor. Number keys
// 1-9 jump to and choose an option directly.
type OptionList struct {
	Labels   []string
	Selected int
	Marks    map[int]Mark
	Locked   bool
}

// NewOptionList creates a list with the cursor on the first option.
func NewOptionList(labels []string) OptionList {
	return OptionList{Labels: labels, Marks: map[int]Mark{}}
}

// Update moves the cursor. chosen is the picked index, or -1 when the
// message did not pick anything.
func (o OptionList) Update(msg tea.Msg) (OptionList, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || o.Locked || len(o.Labels) == 0 {
		return o, -1
	}

	switch {
	case key.Matches(kmsg, Keys.Up):
		if o.Selected > 0 {
			o.Selected--
		}
	case key.Matches(kmsg, Keys.Down):
		if o.Selected < len(o.Labels)-1 {
			o.Selected++
		}
	case key.Matches(kmsg, Keys.Select):
		return o, o.Selected
	default:
		s := kmsg.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			idx := int(s[0] - '1')
			if idx < len(o.Labels) {
				o.Selected = idx
				return o, idx
			}
		}
	}
	return o, -1
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, label := range o.Labels {
		prefix := "  "
		if i == o.Selected && !o.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, label)

		var style lipgloss.Style
		switch o.Marks[i] {
		case MarkCorrect:
			style = theme.Correct
			line += "  ✓"
		case MarkIncorrect:
			style = theme.Incorrect
			line += "  ✗"
		case MarkChosen:
			style = theme.Selected
			line += "  ●"
		default:
			switch {
			case o.Locked:
				style = theme.Muted
			case i == o.Selected:
				style = theme.Selected
			default:
				style = theme.Unselected
			}
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
