package simulation

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/events"
	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/tiers"
)

// Engine walks a learner through one scenario at a time, granting
// per-option XP and recording feedback for every choice.
type Engine struct {
	mu sync.Mutex

	source  catalog.ScenarioSource
	emitter events.Emitter
	logger  *slog.Logger
	runID   string

	load      *loader.Controller
	scenarios []catalog.Scenario

	state    State
	active   *catalog.Scenario
	cursor   int
	xpEarned int
	results  []StepResult
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	emitter events.Emitter
	logger  *slog.Logger
	fence   bool
	runID   string
}

// WithEmitter sets the receiver of change notifications.
func WithEmitter(e events.Emitter) Option {
	return func(c *engineConfig) { c.emitter = e }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

// WithLoadFencing discards scenario loads superseded by a later Load.
func WithLoadFencing() Option {
	return func(c *engineConfig) { c.fence = true }
}

// WithRunID sets the id attached to emitted events.
func WithRunID(id string) Option {
	return func(c *engineConfig) { c.runID = id }
}

// New creates an engine in NotStarted reading scenarios from src.
func New(src catalog.ScenarioSource, opts ...Option) *Engine {
	cfg := engineConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.emitter == nil {
		cfg.emitter = events.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	var loadOpts []loader.Option
	if cfg.fence {
		loadOpts = append(loadOpts, loader.WithFencing())
	}
	return &Engine{
		source:  src,
		emitter: cfg.emitter,
		logger:  cfg.logger.With("component", "simulation"),
		runID:   cfg.runID,
		load:    loader.New(loadOpts...),
	}
}

// Load acquires scenarios in the background. The returned channel is closed
// once this call has resolved. A successful load does not touch a run in
// progress.
func (e *Engine) Load(ctx context.Context) <-chan struct{} {
	e.mu.Lock()
	ticket := e.load.Begin()
	e.mu.Unlock()

	e.emit(ctx, events.SimLoadStarted, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var (
			list []catalog.Scenario
			err  error
		)
		if e.source == nil {
			err = ErrNoSource
		} else {
			list, err = e.source.Scenarios(ctx)
		}
		if err == nil && len(list) == 0 {
			err = ErrEmptyCatalog
		}

		e.mu.Lock()
		var applied bool
		if err != nil {
			applied = e.load.Fail(ticket, err.Error())
		} else if applied = e.load.Succeed(ticket); applied {
			e.scenarios = list
		}
		e.mu.Unlock()

		switch {
		case !applied:
			e.logger.Debug("stale scenario load discarded", "ticket", ticket)
		case err != nil:
			e.logger.Warn("scenario load failed", "error", err)
			e.emit(ctx, events.SimLoadFailed, map[string]any{"error": err.Error()})
		default:
			e.logger.Debug("scenarios loaded", "count", len(list))
			e.emit(ctx, events.SimLoaded, map[string]any{"scenarios": len(list)})
		}
	}()
	return done
}

// SelectScenario starts a fresh run of the scenario with the given id.
func (e *Engine) SelectScenario(id string) error {
	e.mu.Lock()
	idx := slices.IndexFunc(e.scenarios, func(sc catalog.Scenario) bool { return sc.ID == id })
	if idx < 0 {
		e.mu.Unlock()
		return ErrUnknownScenario
	}
	sc := catalog.CloneScenario(e.scenarios[idx])
	e.active = &sc
	e.restart()
	e.mu.Unlock()

	e.logger.Debug("scenario selected", "scenario_id", id)
	e.emit(context.Background(), events.SimScenarioSelected, map[string]any{"scenario_id": id})
	return nil
}

// ChooseOption answers the current step with option index i. The XP granted
// is the step's delta for i whether or not i is the correct index.
func (e *Engine) ChooseOption(i int) (StepResult, error) {
	e.mu.Lock()
	if e.state != InProgress || e.active == nil {
		e.mu.Unlock()
		return StepResult{}, ErrNotInProgress
	}
	step := e.active.Steps[e.cursor]
	if i < 0 || i >= len(step.Options) {
		e.mu.Unlock()
		return StepResult{}, &OptionRangeError{Index: i, Options: len(step.Options)}
	}

	res := StepResult{
		StepIndex: e.cursor,
		Question:  step.Question,
		Chosen:    i,
		IsCorrect: i == step.CorrectIndex,
	}
	if i < len(step.Delta) {
		res.XPGained = step.Delta[i]
	}
	if i < len(step.Feedback) {
		res.Feedback = step.Feedback[i]
	}
	e.results = append(e.results, res)
	e.xpEarned += res.XPGained
	e.cursor++
	completed := e.cursor >= len(e.active.Steps)
	if completed {
		e.state = Complete
	}
	scenarioID, total := e.active.ID, e.xpEarned
	e.mu.Unlock()

	ctx := context.Background()
	e.emit(ctx, events.SimOptionChosen, map[string]any{
		"scenario_id": scenarioID,
		"step":        res.StepIndex,
		"option":      i,
		"correct":     res.IsCorrect,
		"xp_gained":   res.XPGained,
	})
	if completed {
		e.logger.Debug("scenario complete", "scenario_id", scenarioID, "xp_earned", total)
		e.emit(ctx, events.SimCompleted, map[string]any{"scenario_id": scenarioID, "xp_earned": total})
	}
	return res, nil
}

// Retry restarts the active scenario from its first step.
func (e *Engine) Retry() error {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return ErrNotInProgress
	}
	e.restart()
	id := e.active.ID
	e.mu.Unlock()

	e.emit(context.Background(), events.SimRetried, map[string]any{"scenario_id": id})
	return nil
}

// Exit abandons the current run and its result log.
func (e *Engine) Exit() {
	e.mu.Lock()
	var id string
	if e.active != nil {
		id = e.active.ID
	}
	e.active = nil
	e.state = NotStarted
	e.cursor = 0
	e.xpEarned = 0
	e.results = nil
	e.mu.Unlock()

	e.emit(context.Background(), events.SimExited, map[string]any{"scenario_id": id})
}

// restart must be called with mu held and active set.
func (e *Engine) restart() {
	e.cursor = 0
	e.xpEarned = 0
	e.results = nil
	e.state = InProgress
	if len(e.active.Steps) == 0 {
		e.state = Complete
	}
}

// State returns where the current run stands.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveScenario returns a copy of the scenario being run.
func (e *Engine) ActiveScenario() (catalog.Scenario, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return catalog.Scenario{}, false
	}
	return catalog.CloneScenario(*e.active), true
}

// CurrentStep returns the step awaiting a choice and its index.
func (e *Engine) CurrentStep() (catalog.Step, int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress || e.active == nil {
		return catalog.Step{}, 0, false
	}
	return e.active.Steps[e.cursor], e.cursor, true
}

// StepProgressPercent is the share of steps answered, 0 to 100.
func (e *Engine) StepProgressPercent() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || len(e.active.Steps) == 0 {
		return 0
	}
	return e.cursor * 100 / len(e.active.Steps)
}

// ResultsLog returns a copy of the run's results.
func (e *Engine) ResultsLog() []StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.results)
}

// IsComplete reports whether every step of the active scenario is answered.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Complete
}

// XPEarned returns the sum of the XP deltas of the current run. It can be
// negative when a scenario penalizes choices.
func (e *Engine) XPEarned() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.xpEarned
}

// TierSet evaluates tiers over the XP earned in the current run.
func (e *Engine) TierSet() tiers.Set {
	return tiers.Evaluate(e.XPEarned())
}

// Scenarios returns copies of the loaded scenarios.
func (e *Engine) Scenarios() []catalog.Scenario {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]catalog.Scenario, len(e.scenarios))
	for i, sc := range e.scenarios {
		out[i] = catalog.CloneScenario(sc)
	}
	return out
}

// LifecycleStatus returns the scenario load state.
func (e *Engine) LifecycleStatus() loader.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load.Status()
}

// ErrorMessage returns the last load failure message, if any.
func (e *Engine) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load.Err()
}

func (e *Engine) emit(ctx context.Context, t events.Type, attrs map[string]any) {
	if err := e.emitter.Emit(ctx, events.New(t, e.runID, attrs)); err != nil {
		e.logger.Warn("event handler failed", "event_type", string(t), "error", err)
	}
}
