package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
	"github.com/abhisek/xpquest/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch s.session.LifecycleStatus() {
	case loader.Failed:
		return renderError(width, s.session.ErrorMessage())
	case loader.Succeeded:
		return s.renderItem(width)
	default:
		return layout.Centered(width, theme.Muted,
			fmt.Sprintf("\n\n\n  %s Loading questions...", s.spinner.View()))
	}
}

func (s *QuizScreen) renderItem(width int) string {
	item, ok := s.session.CurrentItem()
	if !ok {
		return ""
	}
	p := s.session.Progress()

	var b strings.Builder
	bar := components.StepProgress(fmt.Sprintf("Question %d/%d", p.Current, p.Total), p.Answered, p.Total, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, theme.Body.Bold(true), item.Prompt))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Muted, fmt.Sprintf("worth %d XP", item.XPValue)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	b.WriteString("\n")

	if r, answered := s.session.ResponseFor(item.ID); answered {
		line := theme.Incorrect.Render("Not quite. Change your answer or move on.")
		if r.IsCorrect {
			line = theme.Correct.Render(fmt.Sprintf("Correct! +%d XP", r.AwardedXP))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent), s.notice))
		b.WriteString("\n")
	}
	return b.String()
}

func renderError(width int, msg string) string {
	return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\n  Error: %s\n\n  Press R to try again or Esc to go back.", msg))
}
