package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func factory(title string, calls *int) Factory {
	return func() screen.Screen {
		*calls++
		return &stubScreen{title: title}
	}
}

func TestHomeScreen_MenuPushesFreshScreens(t *testing.T) {
	var quizCalls, simCalls int
	h := New(factory("quiz", &quizCalls), factory("sim", &simCalls), "")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from selecting Quiz")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "quiz" {
		t.Errorf("pushed %q, want quiz", msg.Screen.Title())
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg = cmd().(router.PushScreenMsg)
	if msg.Screen.Title() != "sim" {
		t.Errorf("pushed %q, want sim", msg.Screen.Title())
	}
	if quizCalls != 1 || simCalls != 1 {
		t.Errorf("factory calls = %d/%d, want 1/1", quizCalls, simCalls)
	}
}

func TestHomeScreen_NilFactoryDisablesEntry(t *testing.T) {
	var simCalls int
	h := New(nil, factory("sim", &simCalls), "")

	if h.menu.Selected != 1 {
		t.Fatalf("selected = %d, want the first enabled entry", h.menu.Selected)
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if h.menu.Selected != 1 {
		t.Errorf("up moved onto a disabled entry")
	}
}

func TestHomeScreen_Quit(t *testing.T) {
	var n int
	h := New(factory("quiz", &n), factory("sim", &n), "")
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestHomeScreen_View(t *testing.T) {
	var n int
	h := New(factory("quiz", &n), factory("sim", &n), "catalog: builtin")
	view := h.View(100, 30)
	for _, want := range []string{"X P Q U E S T", "Quiz", "Simulation", "Quit", "catalog: builtin"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if h.Title() != "Home" {
		t.Errorf("Title() = %q", h.Title())
	}
}
