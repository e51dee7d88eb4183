// Package tiers maps cumulative XP to reward labels.
//
// Tiers stack: crossing a higher threshold can unlock several labels at
// once, so a learner at 450 XP holds Platinum, Gold and Silver together.
// Bronze is only held in the 100-199 band.
package tiers

import "slices"

// Tier is a qualitative reward label unlocked by XP.
type Tier string

const (
	Bronze   Tier = "bronze"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

// AllTiers returns all tiers in order from lowest to highest.
func AllTiers() []Tier {
	return []Tier{Bronze, Silver, Gold, Platinum}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case Bronze:
		return "Bronze"
	case Silver:
		return "Silver"
	case Gold:
		return "Gold"
	case Platinum:
		return "Platinum"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case Bronze:
		return "🥉"
	case Silver:
		return "🥈"
	case Gold:
		return "🥇"
	case Platinum:
		return "💠"
	default:
		return "✦"
	}
}

// Threshold is an XP floor and the labels held at or above it (until the
// next threshold takes over).
type Threshold struct {
	MinXP int
	Tiers Set
}

// thresholds is ordered highest first; the first match wins.
var thresholds = []Threshold{
	{MinXP: 400, Tiers: Set{Platinum, Gold, Silver}},
	{MinXP: 300, Tiers: Set{Gold, Silver}},
	{MinXP: 200, Tiers: Set{Silver}},
	{MinXP: 100, Tiers: Set{Bronze}},
}

// Thresholds returns the threshold table, highest first.
func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	for i, th := range thresholds {
		out[i] = Threshold{MinXP: th.MinXP, Tiers: slices.Clone(th.Tiers)}
	}
	return out
}

// Evaluate returns the tiers held at xp. It is pure and deterministic; the
// result is never nil.
func Evaluate(xp int) Set {
	for _, th := range thresholds {
		if xp >= th.MinXP {
			return slices.Clone(th.Tiers)
		}
	}
	return Set{}
}

// Next returns the lowest threshold strictly above xp, or false when xp is
// already at the top band.
func Next(xp int) (int, bool) {
	for i := len(thresholds) - 1; i >= 0; i-- {
		if thresholds[i].MinXP > xp {
			return thresholds[i].MinXP, true
		}
	}
	return 0, false
}
