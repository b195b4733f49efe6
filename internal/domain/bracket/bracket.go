// Package bracket resolves knockout slot participants from group standings
// and earlier knockout results, and derives the podium.
//
// Resolution is a pure re-derivation from the current standings and scores.
// Nothing is locked in: when a semifinal result changes, the final and
// third-place labels follow it, and scores already entered against the old
// label are left as they are.
package bracket

import (
	"strconv"

	"github.com/okian/birdie/internal/domain/match"
	"github.com/okian/birdie/internal/domain/score"
	"github.com/okian/birdie/internal/domain/standings"
)

// Unresolved marks a podium place whose deciding match has no winner yet.
const Unresolved = "---"

// Format selects how groups feed the semifinals.
type Format string

const (
	// FourGroups: semi1 = A1 v B1, semi2 = C1 v D1.
	FourGroups Format = "four_groups"
	// TwoGroups: semi1 = A1 v B1, semi2 = A2 v B2.
	TwoGroups Format = "two_groups"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool { return f == FourGroups || f == TwoGroups }

// Groups is the number of groups the format seeds from.
func (f Format) Groups() int {
	if f == TwoGroups {
		return 2
	}
	return 4
}

// HasConsolation reports whether the format can run a consolation draw.
// In the two-group format the runners-up already play in the main semis.
func (f Format) HasConsolation() bool { return f == FourGroups }

var defaultGroupKeys = []string{"A", "B", "C", "D"}

// Seed is one group's ranked table as input to the bracket.
type Seed struct {
	Group string
	Table []standings.Row
}

// Options configures Resolve.
type Options struct {
	// Pending holds the bracket inactive: seeds are ignored, later rounds
	// keep their "Winner SF1" style labels and every podium place stays
	// Unresolved. Entered scores are still shown on their slots.
	Pending     bool
	Format      Format
	Consolation bool
	// Threshold is the minimum winning set score used for the third-set
	// clinch flag. Zero means match.KnockoutSetThreshold.
	Threshold int
}

// Slot is a resolved bracket position.
type Slot struct {
	ID           SlotID       `json:"id"`
	P1           string       `json:"p1"`
	P2           string       `json:"p2"`
	Sets         score.Sets   `json:"scores"`
	Result       match.Result `json:"result"`
	ThirdSetOpen bool         `json:"third_set_open"`
}

// Winner returns the winning side's label.
func (s Slot) Winner() (string, bool) {
	switch s.Result.Winner {
	case match.SideA:
		return s.P1, true
	case match.SideB:
		return s.P2, true
	}
	return "", false
}

// Loser returns the losing side's label.
func (s Slot) Loser() (string, bool) {
	switch s.Result.Winner {
	case match.SideA:
		return s.P2, true
	case match.SideB:
		return s.P1, true
	}
	return "", false
}

// Podium holds final placements. Bronze comes from the third-place match.
// Fourth is the consolation final's winner when that draw runs, otherwise
// the third-place match's loser; whether it reads as a shared third place
// or a distinct fourth is up to the caller.
type Podium struct {
	Gold   string `json:"gold"`
	Silver string `json:"silver"`
	Bronze string `json:"bronze"`
	Fourth string `json:"fourth"`
}

// Bracket is the resolved knockout stage.
type Bracket struct {
	Format      Format `json:"format"`
	Consolation bool   `json:"consolation"`
	Slots       []Slot `json:"slots"`
	Podium      Podium `json:"podium"`
}

// Slot looks up a slot by id.
func (b Bracket) Slot(id SlotID) (Slot, bool) {
	for _, s := range b.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// Resolve wires seeds into the semifinals, semifinal outcomes into the final
// and third-place match, and final outcomes into the podium. Missing groups
// or rank positions fall back to placeholder labels such as "C1"; slots
// awaiting a semifinal show "Winner SF1", "Loser SF2" and so on.
func Resolve(seeds []Seed, scores Scores, opts Options) Bracket {
	if !opts.Format.Valid() {
		opts.Format = FourGroups
	}
	if opts.Threshold <= 0 {
		opts.Threshold = match.KnockoutSetThreshold
	}
	consolation := opts.Consolation && opts.Format.HasConsolation()
	if opts.Pending {
		seeds = nil
	}
	winnerOr := func(s Slot, fallback string) string {
		if opts.Pending {
			return fallback
		}
		return winnerOf(s, fallback)
	}
	loserOr := func(s Slot, fallback string) string {
		if opts.Pending {
			return fallback
		}
		return loserOf(s, fallback)
	}

	seed := func(group, rank int) string {
		key := defaultGroupKeys[group]
		if group >= len(seeds) {
			return key + strconv.Itoa(rank)
		}
		if seeds[group].Group != "" {
			key = seeds[group].Group
		}
		return standings.At(seeds[group].Table, rank, key+strconv.Itoa(rank))
	}
	mk := func(id SlotID, p1, p2 string) Slot {
		sets := scores.Sets(id)
		return Slot{
			ID:           id,
			P1:           p1,
			P2:           p2,
			Sets:         sets,
			Result:       match.EvaluateSets(sets),
			ThirdSetOpen: match.ThirdSetOpen(sets, opts.Threshold),
		}
	}

	var semi1, semi2 Slot
	switch opts.Format {
	case TwoGroups:
		semi1 = mk(Semi1, seed(0, 1), seed(1, 1))
		semi2 = mk(Semi2, seed(0, 2), seed(1, 2))
	default:
		semi1 = mk(Semi1, seed(0, 1), seed(1, 1))
		semi2 = mk(Semi2, seed(2, 1), seed(3, 1))
	}
	final := mk(Final, winnerOr(semi1, "Winner SF1"), winnerOr(semi2, "Winner SF2"))
	third := mk(Third, loserOr(semi1, "Loser SF1"), loserOr(semi2, "Loser SF2"))

	b := Bracket{
		Format:      opts.Format,
		Consolation: consolation,
		Slots:       []Slot{semi1, semi2, final, third},
		Podium: Podium{
			Gold:   winnerOr(final, Unresolved),
			Silver: loserOr(final, Unresolved),
			Bronze: winnerOr(third, Unresolved),
			Fourth: loserOr(third, Unresolved),
		},
	}

	if consolation {
		csemi1 := mk(ConsolationSemi1, seed(0, 2), seed(1, 2))
		csemi2 := mk(ConsolationSemi2, seed(2, 2), seed(3, 2))
		cfinal := mk(ConsolationFinal, winnerOr(csemi1, "Winner CSF1"), winnerOr(csemi2, "Winner CSF2"))
		b.Slots = append(b.Slots, csemi1, csemi2, cfinal)
		b.Podium.Fourth = winnerOr(cfinal, Unresolved)
	}
	return b
}

func winnerOf(s Slot, fallback string) string {
	if w, ok := s.Winner(); ok {
		return w
	}
	return fallback
}

func loserOf(s Slot, fallback string) string {
	if l, ok := s.Loser(); ok {
		return l
	}
	return fallback
}
