package standings

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank returns a sorted copy of rows. Order: more wins, then larger set
// difference, then larger point difference, then name ascending. Names are
// compared with a root-locale collator so accented names sort next to their
// base letters; names the collator considers equal fall back to byte order,
// which keeps the order total.
func Rank(rows []Row) []Row {
	out := slices.Clone(rows)
	if out == nil {
		return []Row{}
	}
	col := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Row) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		if a.SetDiff() != b.SetDiff() {
			return b.SetDiff() - a.SetDiff()
		}
		if a.PointDiff() != b.PointDiff() {
			return b.PointDiff() - a.PointDiff()
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
