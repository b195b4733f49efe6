// Package fixture generates the round-robin schedule for a group.
//
// Participant order is part of the input contract: the fixture for the
// participants at positions i < j is emitted with the participant at i as
// side A, and fixtures are ordered by (i, j).
package fixture

import "github.com/okian/birdie/internal/domain/score"

// Fixture is one scheduled match between two participants of a group.
type Fixture struct {
	A    string     `json:"p1" msgpack:"p1"`
	B    string     `json:"p2" msgpack:"p2"`
	Sets score.Sets `json:"scores" msgpack:"scores"`
}

// Played reports whether some set of the fixture has both scores entered.
func (f Fixture) Played() bool { return f.Sets.Played() }

// Involves reports whether name plays in the fixture.
func (f Fixture) Involves(name string) bool { return f.A == name || f.B == name }

// SamePair reports whether both fixtures are between the same two
// participants regardless of side.
func (f Fixture) SamePair(o Fixture) bool {
	return (f.A == o.A && f.B == o.B) || (f.A == o.B && f.B == o.A)
}

// Generate returns every unordered pair of participants exactly once with
// unset scores. Fewer than two participants yields an empty schedule.
func Generate(participants []string) []Fixture {
	n := len(participants)
	if n < 2 {
		return []Fixture{}
	}
	out := make([]Fixture, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Fixture{A: participants[i], B: participants[j]})
		}
	}
	return out
}

// Regenerate rebuilds the schedule for participants and carries over the
// fixture from existing for any pair still present, matched by unordered
// name pair. A carried fixture keeps its original sides and scores.
func Regenerate(participants []string, existing []Fixture) []Fixture {
	fresh := Generate(participants)
	for i, f := range fresh {
		for _, old := range existing {
			if f.SamePair(old) {
				fresh[i] = old
				break
			}
		}
	}
	return fresh
}
