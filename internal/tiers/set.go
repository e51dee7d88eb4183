package tiers

import "slices"

// Set is an ordered collection of held tiers, highest first.
type Set []Tier

// Has reports whether t is held.
func (s Set) Has(t Tier) bool {
	return slices.Contains(s, t)
}

// Contains reports whether every tier of other is also in s.
func (s Set) Contains(other Set) bool {
	for _, t := range other {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same tiers.
func (s Set) Equal(other Set) bool {
	return len(s) == len(other) && s.Contains(other)
}

// Strings returns the display names in set order.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.DisplayName()
	}
	return out
}
