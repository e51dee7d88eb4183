package quiz

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/xpquest/internal/loader"
	qz "github.com/abhisek/xpquest/internal/quiz"
	"github.com/abhisek/xpquest/internal/router"
	"github.com/abhisek/xpquest/internal/screen"
	"github.com/abhisek/xpquest/internal/screens/summary"
	"github.com/abhisek/xpquest/internal/ui/components"
	"github.com/abhisek/xpquest/internal/ui/layout"
)

// QuizScreen drives a quiz session: it loads the catalog, shows one item at
// a time and records answers through the session commands.
type QuizScreen struct {
	session *qz.Session
	options components.OptionList
	spinner components.Spinner
	notice  string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen over session. The session is loaded on Init.
func New(session *qz.Session) *QuizScreen {
	return &QuizScreen{session: session}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load()
}

func (s *QuizScreen) load() tea.Cmd {
	done := s.session.Load(context.Background())
	return tea.Batch(components.WaitFor(done, loadDoneMsg{}), s.spinner.Tick())
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Status() *layout.Status {
	return &layout.Status{XP: s.session.CumulativeXP(), Tiers: s.session.TierSet()}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	k := components.Keys
	switch s.session.LifecycleStatus() {
	case loader.Failed:
		return components.Hints(k.Reload, k.Back)
	case loader.Succeeded:
		return components.Hints(k.Select, k.Prev, k.Next, k.Reset, k.Back)
	default:
		return components.Hints(k.Back)
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		s.sync()
		return s, nil

	case components.SpinnerTickMsg:
		if s.session.LifecycleStatus() != loader.Loading {
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	k := components.Keys
	if key.Matches(msg, k.Back) {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.session.LifecycleStatus() {
	case loader.Failed:
		if key.Matches(msg, k.Reload) {
			s.notice = ""
			return s, s.load()
		}
		return s, nil
	case loader.Succeeded:
	default:
		return s, nil
	}

	switch {
	case key.Matches(msg, k.Reset):
		s.session.Reset()
		s.notice = ""
		return s, s.load()

	case key.Matches(msg, k.Next):
		return s.advance()

	case key.Matches(msg, k.Prev):
		s.session.Previous()
		s.sync()
		return s, nil
	}

	var chosen int
	s.options, chosen = s.options.Update(msg)
	if chosen < 0 {
		return s, nil
	}
	item, ok := s.session.CurrentItem()
	if !ok || chosen >= len(item.Options) {
		return s, nil
	}
	if err := s.session.SubmitResponse(item.ID, item.Options[chosen].ID); err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.notice = ""
	s.sync()
	return s, nil
}

func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	complete, err := s.session.Next()
	if errors.Is(err, qz.ErrUnanswered) {
		s.notice = "Pick an answer before moving on."
		return s, nil
	}
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.notice = ""
	if complete {
		sum := qz.BuildSummary(s.session.Snapshot())
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: summary.NewQuiz(sum)}
		}
	}
	s.sync()
	return s, nil
}

// sync rebuilds the option list for the item under the cursor, marking any
// recorded answer.
func (s *QuizScreen) sync() {
	item, ok := s.session.CurrentItem()
	if !ok {
		s.options = components.NewOptionList(nil)
		return
	}
	labels := make([]string, len(item.Options))
	for i, o := range item.Options {
		labels[i] = o.Label
	}
	opts := components.NewOptionList(labels)

	if r, answered := s.session.ResponseFor(item.ID); answered {
		for i, o := range item.Options {
			switch {
			case o.IsCorrect:
				opts.Marks[i] = components.MarkCorrect
			case o.ID == r.OptionID:
				opts.Marks[i] = components.MarkIncorrect
			}
			if o.ID == r.OptionID {
				opts.Selected = i
			}
		}
	}
	s.options = opts
}
