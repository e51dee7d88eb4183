package quiz

import (
	"github.com/abhisek/xpquest/internal/tiers"
)

// ItemResult is the outcome of one item for the summary screen.
type ItemResult struct {
	ItemID       string
	Prompt       string
	Answered     bool
	IsCorrect    bool
	AwardedXP    int
	ChosenLabel  string
	CorrectLabel string
}

// Summary holds the data displayed when a quiz is finished.
type Summary struct {
	SessionID  string
	TotalItems int
	Answered   int
	Correct    int
	Accuracy   float64 // Correct / Answered (0 when nothing answered)
	TotalXP    int
	MaxXP      int
	Tiers      tiers.Set
	NextTierXP int // 0 when already in the top band
	Results    []ItemResult
}

// BuildSummary creates a Summary from a session snapshot. Items are listed in
// catalog order.
func BuildSummary(st State) *Summary {
	sum := &Summary{
		SessionID:  st.SessionID,
		TotalItems: len(st.Items),
		TotalXP:    st.TotalXP,
		Tiers:      st.Tiers,
	}
	if next, ok := tiers.Next(st.TotalXP); ok {
		sum.NextTierXP = next
	}

	for _, it := range st.Items {
		sum.MaxXP += it.XPValue

		res := ItemResult{ItemID: it.ID, Prompt: it.Prompt}
		if c, ok := it.CorrectOption(); ok {
			res.CorrectLabel = c.Label
		}
		if r, ok := st.Responses[it.ID]; ok {
			sum.Answered++
			res.Answered = true
			res.IsCorrect = r.IsCorrect
			res.AwardedXP = r.AwardedXP
			if o, ok := it.Option(r.OptionID); ok {
				res.ChosenLabel = o.Label
			}
			if r.IsCorrect {
				sum.Correct++
			}
		}
		sum.Results = append(sum.Results, res)
	}

	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Answered)
	}
	return sum
}
