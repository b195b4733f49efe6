package stats_test

import (
	"strings"
	"testing"

	"github.com/okian/birdie/internal/domain/score"
	"github.com/okian/birdie/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func m(a, b string, sets ...score.Set) stats.Match {
	var ss score.Sets
	copy(ss[:], sets)
	return stats.Match{A: a, B: b, Sets: ss}
}

func TestSummarize(t *testing.T) {
	Convey("Given no played matches", t, func() {
		sum := stats.Summarize([]stats.Match{m("Nam", "Nga")}, nil)

		Convey("Then every highlight shows the empty marker", func() {
			So(sum.TotalMatches, ShouldEqual, 0)
			So(sum.TotalPoints, ShouldEqual, 0)
			So(sum.TopScorer.Name, ShouldEqual, stats.None)
			So(sum.LongestMatch.A, ShouldEqual, stats.None)
			So(sum.DominantWin.Winner, ShouldEqual, stats.None)
		})
	})

	Convey("Given a match with only one side of a set entered", t, func() {
		sum := stats.Summarize([]stats.Match{m("Nam", "Nga", score.Set{score.Of(21), score.Unset()})}, nil)

		Convey("Then it is not counted as played", func() {
			So(sum.TotalMatches, ShouldEqual, 0)
			So(stats.ProfileOf("Nam", []stats.Match{m("Nam", "Nga", score.Set{score.Of(21), score.Unset()})}).Matches, ShouldEqual, 0)
		})
	})

	Convey("Given a mix of played, partial and unplayed matches", t, func() {
		matches := []stats.Match{
			m("Nam", "Nga", score.NewSet(21, 15), score.NewSet(18, 21)),
			m("Nam", "Sơn", score.NewSet(21, 5), score.NewSet(21, 3)),
			m("Nga", "Sơn", score.NewSet(25, 23), score.NewSet(19, 21), score.NewSet(21, 17)),
			m("Tú", "Long"),
			m("Winner SF1", "Winner SF2", score.NewSet(30, 29)),
		}
		notPlaceholder := func(name string) bool { return !strings.HasPrefix(name, "Winner ") }
		sum := stats.Summarize(matches, notPlaceholder)

		Convey("Then totals cover every played match", func() {
			So(sum.TotalMatches, ShouldEqual, 4)
			So(sum.TotalPoints, ShouldEqual, 75+50+126+59)
		})

		Convey("And the longest match has the most combined points", func() {
			So(sum.LongestMatch, ShouldResemble, stats.Longest{A: "Nga", B: "Sơn", Points: 126})
		})

		Convey("And the dominant win is the widest decided margin", func() {
			So(sum.DominantWin, ShouldResemble, stats.Dominant{Winner: "Nam", Margin: 34})
		})

		Convey("And placeholder labels earn no scorer points", func() {
			So(sum.TopScorer, ShouldResemble, stats.Scorer{Name: "Nga", Points: 101})
		})
	})

	Convey("Given tied top scorers", t, func() {
		sum := stats.Summarize([]stats.Match{m("Bình", "An", score.NewSet(21, 21))}, nil)
		So(sum.TopScorer.Name, ShouldEqual, "An")
		So(sum.DominantWin.Winner, ShouldEqual, stats.None)
		So(sum.LongestMatch.Points, ShouldEqual, 42)
	})
}

func TestProfileOf(t *testing.T) {
	Convey("Given a participant's matches", t, func() {
		matches := []stats.Match{
			m("Nam", "Nga", score.NewSet(21, 15), score.NewSet(21, 18)),
			m("Sơn", "Nam", score.NewSet(21, 15), score.NewSet(21, 18)),
			m("Nam", "Tú", score.NewSet(21, 15)),
			m("Nam", "Long"),
			m("Nga", "Sơn", score.NewSet(21, 15), score.NewSet(21, 18)),
		}
		p := stats.ProfileOf("Nam", matches)

		Convey("Then only played matches involving them count", func() {
			So(p.Matches, ShouldEqual, 3)
			So(p.Wins, ShouldEqual, 2)
			So(p.Losses, ShouldEqual, 1)
			So(p.Points, ShouldEqual, 42+33+21)
		})

		Convey("And an unknown name has an empty record", func() {
			So(stats.ProfileOf("Yun", matches), ShouldResemble, stats.Profile{Name: "Yun"})
		})
	})
}
