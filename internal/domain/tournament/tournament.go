// Package tournament derives everything shown to users from a snapshot:
// per-group standings and fixture results, the readiness gate, the resolved
// bracket with its podium, and group-stage statistics.
//
// Derive is pure. Calling it twice with the same snapshot and settings gives
// equal views, and it is safe to call concurrently.
package tournament

import (
	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/fixture"
	"github.com/okian/birdie/internal/domain/match"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/readiness"
	"github.com/okian/birdie/internal/domain/score"
	"github.com/okian/birdie/internal/domain/standings"
	"github.com/okian/birdie/internal/domain/stats"
)

// Settings selects the tournament format. It is comparable and can be part
// of a cache key.
type Settings struct {
	Format            bracket.Format `json:"format"`
	Consolation       bool           `json:"consolation"`
	GroupThreshold    int            `json:"group_threshold"`
	KnockoutThreshold int            `json:"knockout_threshold"`
}

// DefaultSettings is the four-group format without a consolation draw.
func DefaultSettings() Settings {
	return Settings{
		Format:            bracket.FourGroups,
		GroupThreshold:    match.GroupSetThreshold,
		KnockoutThreshold: match.KnockoutSetThreshold,
	}
}

func (s Settings) normalized() Settings {
	if !s.Format.Valid() {
		s.Format = bracket.FourGroups
	}
	if s.GroupThreshold <= 0 {
		s.GroupThreshold = match.GroupSetThreshold
	}
	if s.KnockoutThreshold <= 0 {
		s.KnockoutThreshold = match.KnockoutSetThreshold
	}
	return s
}

// FixtureView is a group fixture with its derived result.
type FixtureView struct {
	Index        int          `json:"index"`
	A            string       `json:"p1"`
	B            string       `json:"p2"`
	Sets         score.Sets   `json:"scores"`
	Result       match.Result `json:"result"`
	ThirdSetOpen bool         `json:"third_set_open"`
}

// GroupView is one group's derived state.
type GroupView struct {
	Key       string          `json:"key"`
	Complete  bool            `json:"complete"`
	Standings []standings.Row `json:"standings"`
	Fixtures  []FixtureView   `json:"fixtures"`
}

// View is the full derivation of a snapshot.
type View struct {
	Settings Settings        `json:"settings"`
	Groups   []GroupView     `json:"groups"`
	Ready    bool            `json:"ready"`
	Bracket  bracket.Bracket `json:"bracket"`
	Stats    stats.Summary   `json:"stats"`
}

// Group returns the view of the group with the given key.
func (v View) Group(key string) (GroupView, bool) {
	for _, g := range v.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return GroupView{}, false
}

// Derive computes the view of snap under settings.
//
// The first Format.Groups() groups of the snapshot feed the bracket, in
// snapshot order. Until all of them are complete the bracket stays pending:
// every slot shows placeholder labels and no podium place is resolved, even
// when knockout scores were entered earlier. Statistics cover group fixtures
// only.
func Derive(snap model.Snapshot, settings Settings) View {
	settings = settings.normalized()
	v := View{Settings: settings, Groups: make([]GroupView, 0, len(snap.Groups))}

	for _, g := range snap.Groups {
		v.Groups = append(v.Groups, deriveGroup(g, settings.GroupThreshold))
	}

	feeding := feedingGroups(snap, settings.Format)
	schedules := make([][]fixture.Fixture, len(feeding))
	for i, g := range feeding {
		schedules[i] = g.Fixtures
	}
	v.Ready = readiness.KnockoutReady(schedules)

	var seeds []bracket.Seed
	if v.Ready {
		seeds = make([]bracket.Seed, len(feeding))
		for i, g := range feeding {
			seeds[i] = bracket.Seed{Group: g.Key, Table: v.Groups[i].Standings}
		}
	}
	v.Bracket = bracket.Resolve(seeds, snap.Knockout, bracket.Options{
		Pending:     !v.Ready,
		Format:      settings.Format,
		Consolation: settings.Consolation,
		Threshold:   settings.KnockoutThreshold,
	})
	v.Stats = stats.Summarize(groupMatches(snap), nil)
	return v
}

func deriveGroup(g model.Group, threshold int) GroupView {
	gv := GroupView{
		Key:       g.Key,
		Complete:  readiness.GroupComplete(g.Fixtures),
		Standings: standings.Table(g.Participants, g.Fixtures),
		Fixtures:  make([]FixtureView, len(g.Fixtures)),
	}
	for i, f := range g.Fixtures {
		gv.Fixtures[i] = FixtureView{
			Index:        i,
			A:            f.A,
			B:            f.B,
			Sets:         f.Sets,
			Result:       match.EvaluateSets(f.Sets),
			ThirdSetOpen: match.ThirdSetOpen(f.Sets, threshold),
		}
	}
	return gv
}

func feedingGroups(snap model.Snapshot, f bracket.Format) []model.Group {
	if n := f.Groups(); len(snap.Groups) > n {
		return snap.Groups[:n]
	}
	return snap.Groups
}

func groupMatches(snap model.Snapshot) []stats.Match {
	var out []stats.Match
	for _, g := range snap.Groups {
		for _, f := range g.Fixtures {
			out = append(out, stats.Match{A: f.A, B: f.B, Sets: f.Sets})
		}
	}
	return out
}

// Profile tallies one participant's group-stage record.
func Profile(snap model.Snapshot, name string) stats.Profile {
	return stats.ProfileOf(name, groupMatches(snap))
}
