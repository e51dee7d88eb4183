package catalog

import (
	"fmt"
	"strings"
)

// ValidationError lists every structural problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// Validate performs the shape checks the engines rely on: unique ids, at
// least one option per item with exactly one correct, non-negative XP, and
// per-step option/feedback/delta tables of equal length with an in-range
// correct index. Returns a *ValidationError, or nil if the catalog is valid.
func Validate(c *Catalog) error {
	var errs []string
	errs = append(errs, validateItems(c.Items)...)
	errs = append(errs, validateScenarios(c.Scenarios)...)
	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func validateItems(items []Item) []string {
	var errs []string
	ids := make(map[string]bool, len(items))

	for i, it := range items {
		if it.ID == "" {
			errs = append(errs, fmt.Sprintf("item #%d has an empty id", i))
		} else if ids[it.ID] {
			errs = append(errs, fmt.Sprintf("duplicate item id: %q", it.ID))
		}
		ids[it.ID] = true

		if it.XPValue < 0 {
			errs = append(errs, fmt.Sprintf("item %q has negative xp_value %d", it.ID, it.XPValue))
		}
		if len(it.Options) == 0 {
			errs = append(errs, fmt.Sprintf("item %q has no options", it.ID))
			continue
		}

		optIDs := make(map[string]bool, len(it.Options))
		correct := 0
		for _, o := range it.Options {
			if optIDs[o.ID] {
				errs = append(errs, fmt.Sprintf("item %q has duplicate option id %q", it.ID, o.ID))
			}
			optIDs[o.ID] = true
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			errs = append(errs, fmt.Sprintf("item %q must have exactly one correct option, has %d", it.ID, correct))
		}
	}
	return errs
}

func validateScenarios(scenarios []Scenario) []string {
	var errs []string
	ids := make(map[string]bool, len(scenarios))

	for i, sc := range scenarios {
		if sc.ID == "" {
			errs = append(errs, fmt.Sprintf("scenario #%d has an empty id", i))
		} else if ids[sc.ID] {
			errs = append(errs, fmt.Sprintf("duplicate scenario id: %q", sc.ID))
		}
		ids[sc.ID] = true

		if len(sc.Steps) == 0 {
			errs = append(errs, fmt.Sprintf("scenario %q has no steps", sc.ID))
		}
		for j, st := range sc.Steps {
			n := len(st.Options)
			if n == 0 {
				errs = append(errs, fmt.Sprintf("scenario %q step %d has no options", sc.ID, j))
				continue
			}
			if len(st.Delta) != n {
				errs = append(errs, fmt.Sprintf("scenario %q step %d has %d deltas for %d options", sc.ID, j, len(st.Delta), n))
			}
			if len(st.Feedback) != n {
				errs = append(errs, fmt.Sprintf("scenario %q step %d has %d feedback entries for %d options", sc.ID, j, len(st.Feedback), n))
			}
			if st.CorrectIndex < 0 || st.CorrectIndex >= n {
				errs = append(errs, fmt.Sprintf("scenario %q step %d correct_index %d out of range", sc.ID, j, st.CorrectIndex))
			}
		}
	}
	return errs
}
