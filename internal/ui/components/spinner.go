package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances a Spinner by one frame.
type SpinnerTickMsg time.Time

// Spinner is a frame counter for loading indicators.
type Spinner struct {
	frame int
}

// Tick schedules the next frame.
func (Spinner) Tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Advance moves to the next frame.
func (s Spinner) Advance() Spinner {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s
}

func (s Spinner) View() string {
	return spinnerFrames[s.frame]
}

// WaitFor returns a command that blocks until done is closed and then
// delivers msg.
func WaitFor(done <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-done
		return msg
	}
}
