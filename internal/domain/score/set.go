package score

// Set holds both sides' scores for one set: index 0 is side A, index 1 is
// side B. It encodes as a two-element array, matching stored fixture data.
type Set [2]Value

// NewSet builds a set with both values entered.
func NewSet(a, b int) Set { return Set{Of(a), Of(b)} }

// Played reports whether both sides have a score. A set with only one side
// entered is treated as not played.
func (s Set) Played() bool { return s[0].IsSet() && s[1].IsSet() }

// Pair returns both scores when the set is played.
func (s Set) Pair() (a, b int, ok bool) {
	if !s.Played() {
		return 0, 0, false
	}
	return s[0].n, s[1].n, true
}

// Swapped returns the set with the two sides exchanged.
func (s Set) Swapped() Set { return Set{s[1], s[0]} }

// Sets is the fixed three-slot score array of a match.
type Sets [SetsPerMatch]Set

// Any reports whether any single value in any set was entered.
func (ss Sets) Any() bool {
	for _, s := range ss {
		if s[0].IsSet() || s[1].IsSet() {
			return true
		}
	}
	return false
}

// Played reports whether at least one set has both scores entered. This is
// what makes a match count as played in tables, profiles and statistics.
func (ss Sets) Played() bool {
	for _, s := range ss {
		if s.Played() {
			return true
		}
	}
	return false
}

// Swapped returns the sets with sides exchanged in every set.
func (ss Sets) Swapped() Sets {
	var out Sets
	for i, s := range ss {
		out[i] = s.Swapped()
	}
	return out
}
