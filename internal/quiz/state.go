package quiz

import (
	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/tiers"
)

// Response is the live answer recorded for one item.
type Response struct {
	ItemID    string
	OptionID  string
	IsCorrect bool
	AwardedXP int
}

// Progress is the cursor position for display. Current is 1-based and is 0
// only when no items are loaded.
type Progress struct {
	Current  int
	Total    int
	Answered int
}

// State is an immutable copy of a session at one point in time.
type State struct {
	SessionID string
	Items     []catalog.Item
	Cursor    int
	Responses map[string]Response
	TotalXP   int
	Tiers     tiers.Set
	Lifecycle loader.Status
	Error     string
}

// CurrentItem returns the item under the cursor.
func (st State) CurrentItem() (catalog.Item, bool) {
	if st.Cursor < 0 || st.Cursor >= len(st.Items) {
		return catalog.Item{}, false
	}
	return st.Items[st.Cursor], true
}

// Progress returns the cursor position.
func (st State) Progress() Progress {
	return progressOf(len(st.Items), st.Cursor, len(st.Responses))
}

func progressOf(total, cursor, answered int) Progress {
	p := Progress{Total: total, Answered: answered}
	if total > 0 {
		p.Current = cursor + 1
	}
	return p
}

// AtLast reports whether the cursor is on the final item.
func (st State) AtLast() bool {
	return len(st.Items) > 0 && st.Cursor == len(st.Items)-1
}
