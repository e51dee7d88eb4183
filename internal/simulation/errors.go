package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is the failure message for a load that found no scenarios.
	ErrEmptyCatalog = errors.New("no scenarios available")

	ErrUnknownScenario = errors.New("unknown scenario")
	ErrNotInProgress   = errors.New("no scenario in progress")
	ErrNoSource        = errors.New("no scenario source configured")
)

// OptionRangeError is returned by ChooseOption for an index outside the
// current step's options.
type OptionRangeError struct {
	Index   int
	Options int
}

func (e *OptionRangeError) Error() string {
	return fmt.Sprintf("option %d out of range [0, %d)", e.Index, e.Options)
}
