package simulation

import "github.com/abhisek/xpquest/internal/tiers"

// Summary describes a finished or abandoned run.
type Summary struct {
	ScenarioID string
	Title      string
	Steps      int
	Answered   int
	Correct    int
	XPEarned   int
	MaxXP      int
	Tiers      tiers.Set
	Complete   bool
	Results    []StepResult
}

// Summary reports on the active run. It returns nil when no scenario is
// selected.
func (e *Engine) Summary() *Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return nil
	}
	sum := &Summary{
		ScenarioID: e.active.ID,
		Title:      e.active.Title,
		Steps:      len(e.active.Steps),
		Answered:   len(e.results),
		XPEarned:   e.xpEarned,
		MaxXP:      e.active.MaxXP(),
		Tiers:      tiers.Evaluate(e.xpEarned),
		Complete:   e.state == Complete,
		Results:    make([]StepResult, len(e.results)),
	}
	copy(sum.Results, e.results)
	for _, r := range e.results {
		if r.IsCorrect {
			sum.Correct++
		}
	}
	return sum
}
