package catalog

// Option is one selectable answer of a quiz item.
type Option struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value,omitempty"`
	IsCorrect bool   `json:"is_correct"`
}

// Item is a single quiz question.
type Item struct {
	ID      string   `json:"id"`
	Order   int      `json:"order"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
	XPValue int      `json:"xp_value"`
}

// Option returns the option with the given id.
func (it Item) Option(id string) (Option, bool) {
	for _, o := range it.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the option marked correct.
func (it Item) CorrectOption() (Option, bool) {
	for _, o := range it.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

// Step is one decision point of a simulation scenario. Delta[i] is the XP
// granted for choosing Options[i], independent of correctness.
type Step struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Feedback     []string `json:"feedback"`
	Delta        []int    `json:"delta"`
}

// Scenario is an ordered list of simulation steps.
type Scenario struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// MaxXP returns the highest XP reachable by picking the best option at
// every step.
func (s Scenario) MaxXP() int {
	total := 0
	for _, st := range s.Steps {
		best := 0
		for _, d := range st.Delta {
			if d > best {
				best = d
			}
		}
		total += best
	}
	return total
}

// Catalog is the full content set consumed by the engines.
type Catalog struct {
	Items     []Item     `json:"items,omitempty"`
	Scenarios []Scenario `json:"scenarios,omitempty"`
}
