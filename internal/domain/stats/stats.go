// Package stats aggregates tournament-wide figures over played matches.
package stats

import (
	"sort"

	"github.com/okian/birdie/internal/domain/match"
	"github.com/okian/birdie/internal/domain/score"
)

// None is shown for a highlight that no match qualifies for.
const None = "---"

// Match is any scored pairing: a group fixture or a knockout slot.
type Match struct {
	A    string
	B    string
	Sets score.Sets
}

// Scorer is the participant with the most points.
type Scorer struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Longest is the match with the highest combined points.
type Longest struct {
	A      string `json:"p1"`
	B      string `json:"p2"`
	Points int    `json:"points"`
}

// Dominant is the decided match with the widest point margin.
type Dominant struct {
	Winner string `json:"winner"`
	Margin int    `json:"margin"`
}

// Summary is the aggregate over every played match.
type Summary struct {
	TotalMatches int      `json:"total_matches"`
	TotalPoints  int      `json:"total_points"`
	TopScorer    Scorer   `json:"top_scorer"`
	LongestMatch Longest  `json:"longest_match"`
	DominantWin  Dominant `json:"dominant_win"`
}

// Played reports whether some set of m has both scores entered.
func (m Match) Played() bool { return m.Sets.Played() }

// Summarize folds the played matches into a Summary. Unplayed matches are
// skipped. Points are credited to a participant only when credit returns
// true for its label, so placeholder labels can be kept off the scorer
// table; a nil credit accepts every label.
//
// Ties for the longest match and the dominant win keep the first match seen.
// Tied top scorers are ordered by name.
func Summarize(matches []Match, credit func(string) bool) Summary {
	sum := Summary{
		TopScorer:    Scorer{Name: None},
		LongestMatch: Longest{A: None, B: None},
		DominantWin:  Dominant{Winner: None},
	}
	points := map[string]int{}
	bestMargin := -1
	for _, m := range matches {
		if !m.Played() {
			continue
		}
		r := match.EvaluateSets(m.Sets)
		sum.TotalMatches++
		sum.TotalPoints += r.Total()

		if credit == nil || credit(m.A) {
			points[m.A] += r.PointsA
		}
		if credit == nil || credit(m.B) {
			points[m.B] += r.PointsB
		}
		if r.Total() > sum.LongestMatch.Points {
			sum.LongestMatch = Longest{A: m.A, B: m.B, Points: r.Total()}
		}
		if r.Decided() && r.Margin() > bestMargin {
			bestMargin = r.Margin()
			winner := m.A
			if r.Winner == match.SideB {
				winner = m.B
			}
			sum.DominantWin = Dominant{Winner: winner, Margin: r.Margin()}
		}
	}

	if len(points) > 0 {
		names := make([]string, 0, len(points))
		for n := range points {
			names = append(names, n)
		}
		sort.Slice(names, func(i, j int) bool {
			if points[names[i]] != points[names[j]] {
				return points[names[i]] > points[names[j]]
			}
			return names[i] < names[j]
		})
		sum.TopScorer = Scorer{Name: names[0], Points: points[names[0]]}
	}
	return sum
}

// Profile is one participant's record.
type Profile struct {
	Name    string `json:"name"`
	Matches int    `json:"matches"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Points  int    `json:"points"`
}

// ProfileOf tallies name's played matches. Undecided matches count as
// played but neither won nor lost.
func ProfileOf(name string, matches []Match) Profile {
	p := Profile{Name: name}
	for _, m := range matches {
		if !m.Played() || (m.A != name && m.B != name) {
			continue
		}
		r := match.EvaluateSets(m.Sets)
		p.Matches++
		side := match.SideA
		if m.A == name {
			p.Points += r.PointsA
		} else {
			side = match.SideB
			p.Points += r.PointsB
		}
		switch {
		case !r.Decided():
		case r.Winner == side:
			p.Wins++
		default:
			p.Losses++
		}
	}
	return p
}
