// Package readiness decides when the group stage has produced enough results
// to seed the knockout bracket.
package readiness

import (
	"github.com/okian/birdie/internal/domain/fixture"
	"github.com/okian/birdie/internal/domain/match"
)

// GroupComplete reports whether every fixture in the group has a winner.
// A group with no fixtures is complete.
func GroupComplete(fixtures []fixture.Fixture) bool {
	for _, f := range fixtures {
		if !match.EvaluateSets(f.Sets).Decided() {
			return false
		}
	}
	return true
}

// KnockoutReady reports whether every group feeding the bracket is complete.
func KnockoutReady(groups [][]fixture.Fixture) bool {
	for _, g := range groups {
		if !GroupComplete(g) {
			return false
		}
	}
	return true
}

// Pending counts fixtures across groups that still lack a winner.
func Pending(groups [][]fixture.Fixture) int {
	n := 0
	for _, g := range groups {
		for _, f := range g {
			if !match.EvaluateSets(f.Sets).Decided() {
				n++
			}
		}
	}
	return n
}
