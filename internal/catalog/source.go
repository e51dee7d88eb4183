package catalog

import (
	"context"
	"slices"
)

// ItemSource supplies quiz items.
type ItemSource interface {
	Items(ctx context.Context) ([]Item, error)
}

// ScenarioSource supplies simulation scenarios.
type ScenarioSource interface {
	Scenarios(ctx context.Context) ([]Scenario, error)
}

// Source supplies both kinds of content.
type Source interface {
	ItemSource
	ScenarioSource
}

// Static serves a fixed in-memory catalog. Returned slices are copies so
// callers can never mutate the backing data.
type Static struct {
	catalog Catalog
}

var _ Source = (*Static)(nil)

// NewStatic creates a Static source over c.
func NewStatic(c Catalog) *Static {
	return &Static{catalog: c}
}

func (s *Static) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Item, len(s.catalog.Items))
	for i, it := range s.catalog.Items {
		it.Options = slices.Clone(it.Options)
		out[i] = it
	}
	return out, nil
}

func (s *Static) Scenarios(ctx context.Context) ([]Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Scenario, len(s.catalog.Scenarios))
	for i, sc := range s.catalog.Scenarios {
		out[i] = CloneScenario(sc)
	}
	return out, nil
}

// ItemSourceFunc adapts a function to ItemSource.
type ItemSourceFunc func(ctx context.Context) ([]Item, error)

func (f ItemSourceFunc) Items(ctx context.Context) ([]Item, error) { return f(ctx) }

// ScenarioSourceFunc adapts a function to ScenarioSource.
type ScenarioSourceFunc func(ctx context.Context) ([]Scenario, error)

func (f ScenarioSourceFunc) Scenarios(ctx context.Context) ([]Scenario, error) { return f(ctx) }

// CloneScenario returns a deep copy of sc.
func CloneScenario(sc Scenario) Scenario {
	steps := make([]Step, len(sc.Steps))
	for i, st := range sc.Steps {
		steps[i] = Step{
			Question:     st.Question,
			Options:      slices.Clone(st.Options),
			CorrectIndex: st.CorrectIndex,
			Feedback:     slices.Clone(st.Feedback),
			Delta:        slices.Clone(st.Delta),
		}
	}
	sc.Steps = steps
	return sc
}
