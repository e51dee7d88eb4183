package simulation

import (
	"context"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
	"github.com/abhisek/xpquest/internal/screens/summary"
	sim "github.com/abhisek/xpquest/internal/simulation"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
)

// SimulationScreen lets the learner pick a scenario and step through it.
// After each choice the step's feedback is shown until a key is pressed.
type SimulationScreen struct {
	engine   *sim.Engine
	autoPick string

	picker   components.OptionList
	options  components.OptionList
	feedback *sim.StepResult
	spinner  components.Spinner
	notice   string
}

var _ screen.Screen = (*SimulationScreen)(nil)
var _ screen.KeyHintProvider = (*SimulationScreen)(nil)
var _ screen.StatusProvider = (*SimulationScreen)(nil)

// New creates a SimulationScreen. When scenarioID is non-empty that scenario
// starts as soon as the catalog is loaded.
func New(engine *sim.Engine, scenarioID string) *SimulationScreen {
	return &SimulationScreen{engine: engine, autoPick: scenarioID}
}

func (s *SimulationScreen) Init() tea.Cmd {
	return s.load()
}

func (s *SimulationScreen) load() tea.Cmd {
	done := s.engine.Load(context.Background())
	return tea.Batch(components.WaitFor(done, loadDoneMsg{}), s.spinner.Tick())
}

func (s *SimulationScreen) Title() string {
	if sc, ok := s.engine.ActiveScenario(); ok {
		return sc.Title
	}
	return "Simulation"
}

func (s *SimulationScreen) Status() *layout.Status {
	if s.engine.State() == sim.NotStarted {
		return nil
	}
	return &layout.Status{XP: s.engine.XPEarned(), Tiers: s.engine.TierSet()}
}

func (s *SimulationScreen) KeyHints() []layout.KeyHint {
	k := components.Keys
	if s.engine.LifecycleStatus() == loader.Failed {
		return components.Hints(k.Reload, k.Back)
	}
	if s.feedback != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	switch s.engine.State() {
	case sim.InProgress:
		return components.Hints(k.Select, k.Back)
	case sim.Complete:
		return components.Hints(k.Retry, k.Back)
	default:
		return components.Hints(k.Up, k.Down, k.Select, k.Back)
	}
}

func (s *SimulationScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		s.syncPicker()
		if s.autoPick != "" && s.engine.LifecycleStatus() == loader.Succeeded {
			id := s.autoPick
			s.autoPick = ""
			s.selectScenario(id)
		}
		return s, nil

	case components.SpinnerTickMsg:
		if s.engine.LifecycleStatus() != loader.Loading {
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SimulationScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	k := components.Keys

	switch s.engine.LifecycleStatus() {
	case loader.Failed:
		switch {
		case key.Matches(msg, k.Reload):
			return s, s.load()
		case key.Matches(msg, k.Back):
			return s, popScreen
		}
		return s, nil
	case loader.Succeeded:
	default:
		if key.Matches(msg, k.Back) {
			return s, popScreen
		}
		return s, nil
	}

	if s.feedback != nil {
		s.feedback = nil
		if s.engine.IsComplete() {
			sum := s.engine.Summary()
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: summary.NewSimulation(sum)}
			}
		}
		return s, nil
	}

	switch s.engine.State() {
	case sim.NotStarted:
		if key.Matches(msg, k.Back) {
			return s, popScreen
		}
		var chosen int
		s.picker, chosen = s.picker.Update(msg)
		if chosen >= 0 {
			list := s.engine.Scenarios()
			if chosen < len(list) {
				s.selectScenario(list[chosen].ID)
			}
		}

	case sim.InProgress:
		if key.Matches(msg, k.Back) {
			s.exit()
			return s, nil
		}
		var chosen int
		s.options, chosen = s.options.Update(msg)
		if chosen < 0 {
			return s, nil
		}
		res, err := s.engine.ChooseOption(chosen)
		if err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.notice = ""
		s.feedback = &res
		s.syncStep()

	case sim.Complete:
		switch {
		case key.Matches(msg, k.Retry):
			if err := s.engine.Retry(); err != nil {
				s.notice = err.Error()
				return s, nil
			}
			s.syncStep()
		case key.Matches(msg, k.Back):
			s.exit()
		}
	}
	return s, nil
}

func (s *SimulationScreen) selectScenario(id string) {
	if err := s.engine.SelectScenario(id); err != nil {
		s.notice = err.Error() + ": " + id
		return
	}
	s.notice = ""
	s.syncStep()
}

func (s *SimulationScreen) exit() {
	s.engine.Exit()
	s.feedback = nil
	s.notice = ""
	s.syncPicker()
}

func (s *SimulationScreen) syncPicker() {
	list := s.engine.Scenarios()
	labels := make([]string, len(list))
	for i, sc := range list {
		labels[i] = sc.Title
	}
	s.picker = components.NewOptionList(labels)
}

func (s *SimulationScreen) syncStep() {
	step, _, ok := s.engine.CurrentStep()
	if !ok {
		s.options = components.NewOptionList(nil)
		return
	}
	s.options = components.NewOptionList(step.Options)
}

func popScreen() tea.Msg {
	return router.PopScreenMsg{}
}
