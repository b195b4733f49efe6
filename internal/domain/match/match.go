// Package match evaluates a match's set scores into sets won, point totals
// and a winner.
package match

import "github.com/okian/birdie/internal/domain/score"

// Minimum winning score for a set to count as finished when deciding
// whether the third set is still needed.
const (
	GroupSetThreshold    = 15
	KnockoutSetThreshold = 21
)

// Winner identifies the side that won a set or a match.
type Winner int

const (
	// None means undecided.
	None Winner = iota
	// SideA is the first listed participant.
	SideA
	// SideB is the second listed participant.
	SideB
)

// Decided reports whether w names a side.
func (w Winner) Decided() bool { return w == SideA || w == SideB }

// Flip swaps SideA and SideB; None stays None.
func (w Winner) Flip() Winner {
	switch w {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return None
	}
}

// Result is the derived outcome of a match.
type Result struct {
	SetsWonA int    `json:"sets_won_a"`
	SetsWonB int    `json:"sets_won_b"`
	PointsA  int    `json:"points_a"`
	PointsB  int    `json:"points_b"`
	Winner   Winner `json:"winner"`
}

// Decided reports whether the match has a winner.
func (r Result) Decided() bool { return r.Winner.Decided() }

// Total is the combined points of both sides.
func (r Result) Total() int { return r.PointsA + r.PointsB }

// Margin is the absolute point difference.
func (r Result) Margin() int {
	if r.PointsA > r.PointsB {
		return r.PointsA - r.PointsB
	}
	return r.PointsB - r.PointsA
}

// Evaluate counts a set win for the strictly higher score of every played
// set (equal scores award nothing) and adds every played set's points to the
// totals. The side with more set wins is the winner; equal set wins,
// including none at all, leave the match undecided.
func Evaluate(sets []score.Set) Result {
	var r Result
	for _, s := range sets {
		a, b, ok := s.Pair()
		if !ok {
			continue
		}
		r.PointsA += a
		r.PointsB += b
		switch {
		case a > b:
			r.SetsWonA++
		case b > a:
			r.SetsWonB++
		}
	}
	switch {
	case r.SetsWonA > r.SetsWonB:
		r.Winner = SideA
	case r.SetsWonB > r.SetsWonA:
		r.Winner = SideB
	}
	return r
}

// EvaluateSets is Evaluate over the fixed three-slot layout.
func EvaluateSets(sets score.Sets) Result { return Evaluate(sets[:]) }

// SetWinner returns the side that finished the set: it must be played, the
// winner's score must reach threshold and exceed the opponent's.
func SetWinner(s score.Set, threshold int) Winner {
	a, b, ok := s.Pair()
	if !ok {
		return None
	}
	switch {
	case a >= threshold && a > b:
		return SideA
	case b >= threshold && b > a:
		return SideB
	default:
		return None
	}
}

// Clinched returns the side that finished both of the first two sets under
// threshold, or None.
func Clinched(sets score.Sets, threshold int) Winner {
	first := SetWinner(sets[0], threshold)
	if first.Decided() && first == SetWinner(sets[1], threshold) {
		return first
	}
	return None
}

// ThirdSetOpen reports whether the third set should still accept input.
func ThirdSetOpen(sets score.Sets, threshold int) bool {
	return !Clinched(sets, threshold).Decided()
}
