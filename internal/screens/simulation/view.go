package simulation

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/loader"
	sim "github.com/abhisek/xpquest/internal/simulation"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
	"github.com/abhisek/xpquest/internal/ui/theme"
)

func (s *SimulationScreen) View(width, height int) string {
	switch s.engine.LifecycleStatus() {
	case loader.Failed:
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\n\n  Error: %s\n\n  Press R to try again or Esc to go back.", s.engine.ErrorMessage()))
	case loader.Succeeded:
	default:
		return layout.Centered(width, theme.Muted,
			fmt.Sprintf("\n\n\n  %s Loading scenarios...", s.spinner.View()))
	}

	var body string
	switch {
	case s.feedback != nil:
		body = s.renderFeedback(width)
	case s.engine.State() == sim.InProgress:
		body = s.renderStep(width)
	case s.engine.State() == sim.Complete:
		body = s.renderComplete(width)
	default:
		body = s.renderPicker(width)
	}
	if s.notice != "" {
		body += "\n" + layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent), s.notice)
	}
	return body
}

func (s *SimulationScreen) renderPicker(width int) string {
	var b strings.Builder
	b.WriteString(layout.Centered(width, theme.Title, "Choose a scenario"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.picker.View()))
	return b.String()
}

func (s *SimulationScreen) renderStep(width int) string {
	step, idx, ok := s.engine.CurrentStep()
	if !ok {
		return ""
	}
	sc, _ := s.engine.ActiveScenario()

	var b strings.Builder
	bar := components.ProgressBar{
		Label:   fmt.Sprintf("Step %d/%d", idx+1, len(sc.Steps)),
		Percent: s.engine.StepProgressPercent(),
		Width:   min(width-8, 60),
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Body.Bold(true), step.Question))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	return b.String()
}

func (s *SimulationScreen) renderFeedback(width int) string {
	r := s.feedback

	heading := theme.Incorrect.Render("Not the best choice")
	switch {
	case r.IsCorrect:
		heading = theme.Correct.Render("Great choice!")
	case r.XPGained > 0:
		heading = lipgloss.NewStyle().Foreground(theme.Partial).Bold(true).Render("Partly right")
	}

	card := theme.Card.Width(min(width-8, 70)).Render(
		heading + "\n\n" +
			theme.Body.Render(r.Feedback) + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%+d XP", r.XPGained)))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Hint, "Press any key to continue..."))
	return b.String()
}

func (s *SimulationScreen) renderComplete(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, "Scenario complete"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		fmt.Sprintf("%d XP earned", s.engine.XPEarned())))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.RenderTiers(s.engine.TierSet())))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Hint, "Press R to retry or Esc to pick another scenario."))
	return b.String()
}
