package quiz

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is the failure recorded when a load resolves with zero
// items. Its message is surfaced verbatim to the user.
var ErrEmptyCatalog = errors.New("no items available")

// ErrUnanswered is returned by Next when the current item has no response.
var ErrUnanswered = errors.New("current item has not been answered")

// ErrNoSource is the failure recorded when a session has no catalog source.
var ErrNoSource = errors.New("no catalog source configured")

// ConsistencyError reports a response referring to an item or option that is
// not in the loaded catalog. Only returned in strict mode.
type ConsistencyError struct {
	ItemID   string
	OptionID string
	Reason   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent response for item %q option %q: %s", e.ItemID, e.OptionID, e.Reason)
}
