package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/xpquest/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent int // 0-100
	Width   int
}

// StepProgress builds a bar for current of total steps.
func StepProgress(label string, current, total, width int) ProgressBar {
	pct := 0
	if total > 0 {
		pct = current * 100 / total
	}
	return ProgressBar{Label: label, Percent: pct, Width: width}
}

// View renders the bar followed by its percentage.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	const percentWidth = 6
	barWidth := max(p.Width-lipgloss.Width(result)-percentWidth, 4)
	pct := min(max(p.Percent, 0), 100)
	filled := barWidth * pct / 100

	result += lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %3d%%", pct))
	return result
}
