package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
	"github.com/abhisek/xpquest/internal/tiers"
	"github.com/abhisek/xpquest/internal/ui/layout"
)

type fakeScreen struct {
	title  string
	inits  int
	keys   []string
	status *layout.Status
	hints  []layout.KeyHint
}

func (f *fakeScreen) Init() tea.Cmd {
	f.inits++
	return nil
}

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		f.keys = append(f.keys, k.String())
	}
	return f, nil
}

func (f *fakeScreen) View(int, int) string { return "body of " + f.title }
func (f *fakeScreen) Title() string        { return f.title }

type richScreen struct{ fakeScreen }

func (r *richScreen) Status() *layout.Status     { return r.status }
func (r *richScreen) KeyHints() []layout.KeyHint { return r.hints }

func sized(m AppModel) AppModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel)
}

func TestInitCallsRootScreen(t *testing.T) {
	root := &fakeScreen{title: "Root"}
	m := NewModel(root)
	m.Init()
	if root.inits != 1 {
		t.Errorf("inits = %d, want 1", root.inits)
	}
}

func TestCtrlCQuits(t *testing.T) {
	root := &fakeScreen{title: "Root"}
	m := NewModel(root)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
	if len(root.keys) != 0 {
		t.Errorf("ctrl+c leaked to the screen: %v", root.keys)
	}
}

func TestEscIsForwarded(t *testing.T) {
	root := &fakeScreen{title: "Root"}
	m := NewModel(root)
	m.Update(router.PushScreenMsg{Screen: &fakeScreen{title: "Child"}})

	child := m.router.Active().(*fakeScreen)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	if len(child.keys) != 1 || child.keys[0] != "esc" {
		t.Errorf("child keys = %v, want [esc]", child.keys)
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, the app must not pop on its own", m.router.Depth())
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(&fakeScreen{title: "Root"})
	v := m.View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}

func TestRootDefaultHints(t *testing.T) {
	m := NewModel(&fakeScreen{title: "Root"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(AppModel)
	if m.width != 40 || m.height != 10 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	if got := m.footerHints(m.router.Active()); len(got) != 3 {
		t.Errorf("root default hints = %d, want 3", len(got))
	}
}

func TestFooterHintsPreferScreen(t *testing.T) {
	rich := &richScreen{fakeScreen{
		title: "Rich",
		hints: []layout.KeyHint{{Key: "R", Description: "Retry"}},
		status: &layout.Status{
			XP:    250,
			Tiers: tiers.Set{tiers.Silver, tiers.Bronze},
		},
	}}
	m := sized(NewModel(&fakeScreen{title: "Root"}))
	m.Update(router.PushScreenMsg{Screen: rich})

	hints := m.footerHints(m.router.Active())
	if len(hints) != 1 || hints[0].Key != "R" {
		t.Errorf("hints = %v, want the screen's own", hints)
	}
	if rich.inits != 1 {
		t.Errorf("pushed screen inits = %d, want 1", rich.inits)
	}
}

func TestFooterHintsDefaultsForChild(t *testing.T) {
	m := sized(NewModel(&fakeScreen{title: "Root"}))
	m.Update(router.PushScreenMsg{Screen: &fakeScreen{title: "Child"}})

	hints := m.footerHints(m.router.Active())
	if len(hints) != 2 || hints[0].Key != "Esc" {
		t.Errorf("hints = %v, want Esc/Ctrl+C", hints)
	}
}

func TestViewRendersActiveScreen(t *testing.T) {
	m := sized(NewModel(&fakeScreen{title: "Root"}))
	m.Update(router.PushScreenMsg{Screen: &fakeScreen{title: "Child"}})
	// The frame is assembled from the header, body and footer; the body is
	// what the active screen returned.
	if body := m.router.View(100, 20); !strings.Contains(body, "body of Child") {
		t.Errorf("router view = %q", body)
	}
}
