package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screens/summary"
	sim "github.com/abhisek/xpquest/internal/simulation"
)

func testScenarios() []catalog.Scenario {
	return []catalog.Scenario{
		{
			ID: "phish", Title: "Phishing Email",
			Steps: []catalog.Step{
				{
					Question:     "An email asks you to reset your password. First move?",
					Options:      []string{"Click the link", "Check the sender", "Forward it"},
					CorrectIndex: 1,
					Feedback:     []string{"Risky.", "Good instinct.", "Spreads the problem."},
					Delta:        []int{0, 100, 20},
				},
				{
					Question:     "The sender looks spoofed. Now what?",
					Options:      []string{"Report it", "Ignore it"},
					CorrectIndex: 0,
					Feedback:     []string{"Reported.", "It will hit someone else."},
					Delta:        []int{100, 0},
				},
			},
		},
		{
			ID: "usb", Title: "Found USB Stick",
			Steps: []catalog.Step{
				{
					Question:     "You find a USB stick in the lobby.",
					Options:      []string{"Plug it in", "Hand it to IT"},
					CorrectIndex: 1,
					Feedback:     []string{"Never.", "Right."},
					Delta:        []int{0, 50},
				},
			},
		},
	}
}

type failingSource struct{ err error }

func (f failingSource) Scenarios(context.Context) ([]catalog.Scenario, error) {
	return nil, f.err
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func loadedScreen(t *testing.T, src catalog.ScenarioSource, pick string) *SimulationScreen {
	t.Helper()
	eng := sim.New(src)
	<-eng.Load(context.Background())
	s := New(eng, pick)
	s.Update(loadDoneMsg{})
	return s
}

func staticScreen(t *testing.T, pick string) *SimulationScreen {
	t.Helper()
	return loadedScreen(t, catalog.NewStatic(catalog.Catalog{Scenarios: testScenarios()}), pick)
}

func TestSimulationScreen_Picker(t *testing.T) {
	s := staticScreen(t, "")

	view := s.View(100, 30)
	if !strings.Contains(view, "Choose a scenario") {
		t.Errorf("picker view missing heading:\n%s", view)
	}
	if !strings.Contains(view, "Phishing Email") || !strings.Contains(view, "Found USB Stick") {
		t.Errorf("picker view missing titles:\n%s", view)
	}
	if s.Status() != nil {
		t.Error("expected no status before a scenario starts")
	}
	if s.Title() != "Simulation" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestSimulationScreen_SelectStartsScenario(t *testing.T) {
	s := staticScreen(t, "")

	s.Update(keyPress("down"))
	s.Update(keyPress("enter"))

	if s.engine.State() != sim.InProgress {
		t.Fatalf("state = %v, want in_progress", s.engine.State())
	}
	if s.Title() != "Found USB Stick" {
		t.Errorf("Title() = %q", s.Title())
	}
	if !strings.Contains(s.View(100, 30), "You find a USB stick") {
		t.Error("step question not rendered")
	}
}

func TestSimulationScreen_AutoPick(t *testing.T) {
	s := staticScreen(t, "phish")
	if s.engine.State() != sim.InProgress {
		t.Fatalf("state = %v, want in_progress", s.engine.State())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Step 1/2") {
		t.Errorf("missing progress label:\n%s", view)
	}
}

func TestSimulationScreen_AutoPickUnknown(t *testing.T) {
	s := staticScreen(t, "nope")
	if s.engine.State() != sim.NotStarted {
		t.Fatalf("state = %v, want not_started", s.engine.State())
	}
	if !strings.Contains(s.View(100, 30), "nope") {
		t.Error("expected the unknown id in the notice")
	}
}

func TestSimulationScreen_ChoiceShowsFeedback(t *testing.T) {
	s := staticScreen(t, "phish")

	s.Update(keyPress("3"))

	if s.feedback == nil {
		t.Fatal("expected feedback after a choice")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Spreads the problem.") {
		t.Errorf("feedback text missing:\n%s", view)
	}
	if !strings.Contains(view, "Partly right") {
		t.Errorf("expected partial heading:\n%s", view)
	}
	if !strings.Contains(view, "+20 XP") {
		t.Errorf("expected XP delta:\n%s", view)
	}
	if got := s.Status().XP; got != 20 {
		t.Errorf("status XP = %d, want 20", got)
	}

	_, cmd := s.Update(keyPress("x"))
	if cmd != nil {
		t.Error("dismissing mid-scenario feedback should not emit a command")
	}
	if s.feedback != nil {
		t.Error("feedback should be dismissed")
	}
	if !strings.Contains(s.View(100, 30), "The sender looks spoofed") {
		t.Error("expected the second step after dismissing feedback")
	}
}

func TestSimulationScreen_CompletionPushesSummary(t *testing.T) {
	s := staticScreen(t, "phish")

	s.Update(keyPress("2"))
	s.Update(keyPress("x"))
	s.Update(keyPress("1"))

	if !s.engine.IsComplete() {
		t.Fatal("expected scenario to be complete")
	}
	_, cmd := s.Update(keyPress("x"))
	if cmd == nil {
		t.Fatal("expected a command pushing the summary")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	sum, ok := push.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("expected SummaryScreen, got %T", push.Screen)
	}
	if got := sum.Status().XP; got != 200 {
		t.Errorf("summary XP = %d, want 200", got)
	}

	if !strings.Contains(s.View(100, 30), "Scenario complete") {
		t.Error("expected the completion view")
	}
}

func TestSimulationScreen_RetryAndExit(t *testing.T) {
	s := staticScreen(t, "usb")
	s.Update(keyPress("2"))
	s.Update(keyPress("x"))

	if s.engine.State() != sim.Complete {
		t.Fatalf("state = %v, want complete", s.engine.State())
	}

	s.Update(keyPress("r"))
	if s.engine.State() != sim.InProgress {
		t.Fatalf("after retry state = %v, want in_progress", s.engine.State())
	}
	if s.engine.XPEarned() != 0 {
		t.Errorf("after retry XP = %d, want 0", s.engine.XPEarned())
	}

	_, cmd := s.Update(keyPress("esc"))
	if cmd != nil {
		t.Error("esc in a scenario should exit to the picker, not pop")
	}
	if s.engine.State() != sim.NotStarted {
		t.Errorf("after exit state = %v, want not_started", s.engine.State())
	}

	_, cmd = s.Update(keyPress("esc"))
	if cmd == nil {
		t.Fatal("esc in the picker should pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestSimulationScreen_LoadFailure(t *testing.T) {
	s := loadedScreen(t, failingSource{err: errors.New("scenarios offline")}, "")

	view := s.View(100, 30)
	if !strings.Contains(view, "scenarios offline") {
		t.Errorf("error view missing message:\n%s", view)
	}
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("failed hints = %d, want 2", len(hints))
	}

	_, cmd := s.Update(keyPress("r"))
	if cmd == nil {
		t.Error("R should schedule a reload")
	}
}

func TestSimulationScreen_EmptyCatalog(t *testing.T) {
	s := loadedScreen(t, catalog.NewStatic(catalog.Catalog{}), "")
	if !strings.Contains(s.View(100, 30), sim.ErrEmptyCatalog.Error()) {
		t.Error("expected the empty catalog message")
	}
}

func TestSimulationScreen_LoadingView(t *testing.T) {
	eng := sim.New(catalog.NewStatic(catalog.Catalog{Scenarios: testScenarios()}))
	s := New(eng, "")
	if !strings.Contains(s.View(100, 30), "Loading scenarios") {
		t.Error("expected the loading view before Init")
	}
}
