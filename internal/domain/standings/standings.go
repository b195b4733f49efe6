// Package standings aggregates a group's fixtures into ranked table rows.
package standings

import (
	"github.com/okian/birdie/internal/domain/fixture"
	"github.com/okian/birdie/internal/domain/match"
)

// Outcome is one entry of a participant's decided-match log.
type Outcome string

const (
	Win  Outcome = "W"
	Loss Outcome = "L"
)

// Row is a participant's aggregated record within its own group.
type Row struct {
	Name          string    `json:"name"`
	MatchesPlayed int       `json:"matches_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	SetsFor       int       `json:"sets_for"`
	SetsAgainst   int       `json:"sets_against"`
	PointsFor     int       `json:"points_for"`
	PointsAgainst int       `json:"points_against"`
	WinStreak     int       `json:"win_streak"`
	Results       []Outcome `json:"results"`
}

// SetDiff is sets won minus sets lost.
func (r Row) SetDiff() int { return r.SetsFor - r.SetsAgainst }

// PointDiff is points scored minus points conceded.
func (r Row) PointDiff() int { return r.PointsFor - r.PointsAgainst }

// Compute builds one zeroed row per participant, in participant order, and
// folds in every fixture whose two participants both belong to the group.
// Fixtures involving outsiders are ignored. A fixture counts as played once
// any of its sets has both scores entered; set and point totals accumulate
// from every played set, while wins, losses and the result log only move
// for decided fixtures.
func Compute(participants []string, fixtures []fixture.Fixture) []Row {
	rows := make([]Row, len(participants))
	index := make(map[string]int, len(participants))
	for i, name := range participants {
		rows[i] = Row{Name: name, Results: []Outcome{}}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, f := range fixtures {
		ia, okA := index[f.A]
		ib, okB := index[f.B]
		if !okA || !okB || ia == ib {
			continue
		}
		res := match.EvaluateSets(f.Sets)
		a, b := &rows[ia], &rows[ib]

		if f.Played() {
			a.MatchesPlayed++
			b.MatchesPlayed++
		}
		a.SetsFor += res.SetsWonA
		a.SetsAgainst += res.SetsWonB
		b.SetsFor += res.SetsWonB
		b.SetsAgainst += res.SetsWonA
		a.PointsFor += res.PointsA
		a.PointsAgainst += res.PointsB
		b.PointsFor += res.PointsB
		b.PointsAgainst += res.PointsA

		switch res.Winner {
		case match.SideA:
			a.Wins++
			b.Losses++
			a.Results = append(a.Results, Win)
			b.Results = append(b.Results, Loss)
		case match.SideB:
			b.Wins++
			a.Losses++
			b.Results = append(b.Results, Win)
			a.Results = append(a.Results, Loss)
		}
	}

	for i := range rows {
		rows[i].WinStreak = winStreak(rows[i].Results)
	}
	return rows
}

// winStreak counts consecutive wins ending at the most recent result.
// Losing runs are not counted: a trailing loss yields zero.
func winStreak(results []Outcome) int {
	streak := 0
	for i := len(results) - 1; i >= 0 && results[i] == Win; i-- {
		streak++
	}
	return streak
}

// Table is Rank(Compute(participants, fixtures)).
func Table(participants []string, fixtures []fixture.Fixture) []Row {
	return Rank(Compute(participants, fixtures))
}

// At returns the name at 1-based rank position pos, or fallback when the
// table is shorter.
func At(table []Row, pos int, fallback string) string {
	if pos < 1 || pos > len(table) {
		return fallback
	}
	return table[pos-1].Name
}
