package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
	"github.com/abhisek/xpquest/internal/ui/theme"
)

// Factory builds a fresh screen each time a menu entry is chosen.
type Factory func() screen.Screen

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu        components.Menu
	catalogInfo string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. A nil factory disables its menu entry.
// catalogInfo describes where content is loaded from and is shown under
// the title.
func New(quiz, simulation Factory, catalogInfo string) *HomeScreen {
	items := []components.MenuItem{
		{
			Label:       "Quiz",
			Description: "Answer questions and earn XP",
			Action:      pushAction(quiz),
			Disabled:    quiz == nil,
		},
		{
			Label:       "Simulation",
			Description: "Make decisions in a realistic scenario",
			Action:      pushAction(simulation),
			Disabled:    simulation == nil,
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
	return &HomeScreen{
		menu:        components.NewMenu(items),
		catalogInfo: catalogInfo,
	}
}

func pushAction(f Factory) func() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: f()}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, "X P Q U E S T"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, "Learn by doing. Level up as you go."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(h.menu.View())))
	if h.catalogInfo != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Muted, h.catalogInfo))
	}
	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	k := components.Keys
	return append(components.Hints(k.Up, k.Down, k.Select),
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}
