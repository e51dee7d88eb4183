package summary

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/xpquest/internal/quiz"
	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
	sim "github.com/abhisek/xpquest/internal/simulation"
	"github.com/abhisek/xpquest/internal/tiers"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
	"github.com/abhisek/xpquest/internal/ui/theme"
)

type row struct {
	text    string
	correct bool
	partial bool
}

// SummaryScreen shows the result of a finished quiz or simulation run.
type SummaryScreen struct {
	heading string
	stats   string
	xp      int
	maxXP   int
	tiers   tiers.Set
	rows    []row
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// NewQuiz creates a summary of a quiz session.
func NewQuiz(sum *qz.Summary) *SummaryScreen {
	s := &SummaryScreen{heading: "Quiz complete!"}
	if sum == nil {
		return s
	}
	s.stats = fmt.Sprintf("Answered: %d/%d        Correct: %d        Accuracy: %.0f%%",
		sum.Answered, sum.TotalItems, sum.Correct, sum.Accuracy*100)
	s.xp, s.maxXP, s.tiers = sum.TotalXP, sum.MaxXP, sum.Tiers
	for _, r := range sum.Results {
		text := fmt.Sprintf("%s    skipped", r.Prompt)
		if r.Answered {
			text = fmt.Sprintf("%s    %s    +%d XP", r.Prompt, r.ChosenLabel, r.AwardedXP)
		}
		s.rows = append(s.rows, row{text: text, correct: r.IsCorrect})
	}
	return s
}

// NewSimulation creates a summary of a simulation run.
func NewSimulation(sum *sim.Summary) *SummaryScreen {
	s := &SummaryScreen{heading: "Scenario complete!"}
	if sum == nil {
		return s
	}
	if sum.Title != "" {
		s.heading = sum.Title + " complete!"
	}
	s.stats = fmt.Sprintf("Steps: %d        Best choices: %d", sum.Steps, sum.Correct)
	s.xp, s.maxXP, s.tiers = sum.XPEarned, sum.MaxXP, sum.Tiers
	for _, r := range sum.Results {
		s.rows = append(s.rows, row{
			text:    fmt.Sprintf("%d. %s    %+d XP", r.StepIndex+1, r.Feedback, r.XPGained),
			correct: r.IsCorrect,
			partial: !r.IsCorrect && r.XPGained > 0,
		})
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) Status() *layout.Status {
	return &layout.Status{XP: s.xp, Tiers: s.tiers}
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(kmsg, components.Keys.Select):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(kmsg, components.Keys.Back):
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title, s.heading))
	b.WriteString("\n\n")
	if s.stats != "" {
		b.WriteString(layout.Centered(width, theme.Body, s.stats))
		b.WriteString("\n\n")
	}

	xpLine := fmt.Sprintf("XP: %d / %d", s.xp, s.maxXP)
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), xpLine))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.RenderTiers(s.tiers)))
	b.WriteString("\n")
	if next, ok := tiers.Next(s.xp); ok {
		b.WriteString(layout.Centered(width, theme.Muted,
			fmt.Sprintf("%d XP to the next tier", next-s.xp)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(s.rows) > 0 {
		b.WriteString(layout.Divider(width))
		b.WriteString("\n\n")
	}
	for _, r := range s.rows {
		style := theme.Incorrect
		switch {
		case r.correct:
			style = theme.Correct
		case r.partial:
			style = lipgloss.NewStyle().Foreground(theme.Partial)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(r.text)))
		b.WriteString("\n")
	}

	return b.String()
}
