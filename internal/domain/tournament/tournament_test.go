package tournament_test

import (
	"testing"

	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/tournament"
	. "github.com/smartystreets/goconvey/convey"
)

func fourGroups() model.Snapshot {
	return model.NewSnapshot(
		model.Roster{Key: "A", Participants: []string{"Nam", "Nga", "Hoài"}},
		model.Roster{Key: "B", Participants: []string{"Sơn", "Khanh", "Chính"}},
		model.Roster{Key: "C", Participants: []string{"Dương", "Yun", "Hoàn"}},
		model.Roster{Key: "D", Participants: []string{"Tú", "Long", "Anh"}},
	)
}

// finish plays every fixture of a group 21-10, 21-12 for side A, so the
// roster order becomes the final ranking.
func finish(s model.Snapshot, key string) model.Snapshot {
	g, ok := s.Group(key)
	So(ok, ShouldBeTrue)
	for i := range g.Fixtures {
		for set, pts := range [][2]int{{21, 10}, {21, 12}} {
			var err error
			s, err = s.WithFixtureScore(key, i, set+1, 1, pts[0])
			So(err, ShouldBeNil)
			s, err = s.WithFixtureScore(key, i, set+1, 2, pts[1])
			So(err, ShouldBeNil)
		}
	}
	return s
}

func knockout(s model.Snapshot, id bracket.SlotID, sets ...[2]int) model.Snapshot {
	for i, set := range sets {
		for side, pts := range set {
			k, _ := bracket.NewKey(id, i+1, side+1)
			s, _ = s.WithKnockoutScore(k.String(), pts)
		}
	}
	return s
}

func slot(v tournament.View, id bracket.SlotID) bracket.Slot {
	s, ok := v.Bracket.Slot(id)
	So(ok, ShouldBeTrue)
	return s
}

func TestDeriveGroups(t *testing.T) {
	Convey("Given a fresh four-group snapshot", t, func() {
		v := tournament.Derive(fourGroups(), tournament.DefaultSettings())

		Convey("Then every group has zeroed standings in roster order", func() {
			So(len(v.Groups), ShouldEqual, 4)
			a, ok := v.Group("A")
			So(ok, ShouldBeTrue)
			So(a.Complete, ShouldBeFalse)
			So(len(a.Standings), ShouldEqual, 3)
			So(a.Standings[0].Name, ShouldEqual, "Hoài")
			So(len(a.Fixtures), ShouldEqual, 3)
			So(a.Fixtures[2].Index, ShouldEqual, 2)
			So(a.Fixtures[0].ThirdSetOpen, ShouldBeTrue)
		})

		Convey("And the knockout stage is not ready", func() {
			So(v.Ready, ShouldBeFalse)
			So(slot(v, bracket.Semi1).P1, ShouldEqual, "A1")
			So(slot(v, bracket.Final).P1, ShouldEqual, "Winner SF1")
		})

		Convey("And statistics are empty", func() {
			So(v.Stats.TotalMatches, ShouldEqual, 0)
			So(v.Stats.TopScorer.Name, ShouldEqual, "---")
		})
	})

	Convey("Given a fixture clinched at the group threshold", t, func() {
		s, _ := fourGroups().WithFixtureScore("A", 0, 1, 1, 15)
		s, _ = s.WithFixtureScore("A", 0, 1, 2, 13)
		s, _ = s.WithFixtureScore("A", 0, 2, 1, 15)
		s, _ = s.WithFixtureScore("A", 0, 2, 2, 8)
		v := tournament.Derive(s, tournament.DefaultSettings())
		a, _ := v.Group("A")

		Convey("Then the third set closes and the winner leads", func() {
			So(a.Fixtures[0].ThirdSetOpen, ShouldBeFalse)
			So(a.Fixtures[0].Result.SetsWonA, ShouldEqual, 2)
			So(a.Standings[0].Name, ShouldEqual, "Nam")
		})

		Convey("And a higher threshold keeps it open", func() {
			set := tournament.DefaultSettings()
			set.GroupThreshold = 21
			a, _ := tournament.Derive(s, set).Group("A")
			So(a.Fixtures[0].ThirdSetOpen, ShouldBeTrue)
		})
	})
}

func TestDeriveKnockout(t *testing.T) {
	Convey("Given three complete groups and one open group", t, func() {
		s := fourGroups()
		for _, k := range []string{"A", "B", "C"} {
			s = finish(s, k)
		}
		v := tournament.Derive(s, tournament.DefaultSettings())

		Convey("Then the bracket stays on placeholders", func() {
			So(v.Ready, ShouldBeFalse)
			So(slot(v, bracket.Semi1).P1, ShouldEqual, "A1")
			So(slot(v, bracket.Semi2).P2, ShouldEqual, "D1")
		})

		Convey("When the last group completes", func() {
			s = finish(s, "D")
			v := tournament.Derive(s, tournament.DefaultSettings())

			Convey("Then group winners fill the semifinals", func() {
				So(v.Ready, ShouldBeTrue)
				So(slot(v, bracket.Semi1).P1, ShouldEqual, "Nam")
				So(slot(v, bracket.Semi1).P2, ShouldEqual, "Sơn")
				So(slot(v, bracket.Semi2).P1, ShouldEqual, "Dương")
				So(slot(v, bracket.Semi2).P2, ShouldEqual, "Tú")
			})

			Convey("And playing the draw produces a podium", func() {
				s = knockout(s, bracket.Semi1, [2]int{21, 15}, [2]int{21, 19})
				s = knockout(s, bracket.Semi2, [2]int{21, 23}, [2]int{19, 21})
				s = knockout(s, bracket.Final, [2]int{21, 11}, [2]int{21, 11})
				s = knockout(s, bracket.Third, [2]int{21, 17}, [2]int{16, 21}, [2]int{21, 19})
				v := tournament.Derive(s, tournament.DefaultSettings())

				So(v.Bracket.Podium, ShouldResemble, bracket.Podium{
					Gold: "Nam", Silver: "Tú", Bronze: "Sơn", Fourth: "Dương",
				})
				So(v.Stats.TotalMatches, ShouldEqual, 12)
				So(v.Stats.TopScorer.Name, ShouldEqual, "Dương")
				So(v.Stats.TopScorer.Points, ShouldEqual, 84)

				Convey("When a newcomer reopens a group", func() {
					s, err := s.WithParticipantAdded("A", "Newcomer")
					So(err, ShouldBeNil)
					v := tournament.Derive(s, tournament.DefaultSettings())

					Convey("Then the bracket is pending and no medal is awarded", func() {
						So(v.Ready, ShouldBeFalse)
						So(v.Bracket.Podium, ShouldResemble, bracket.Podium{
							Gold: bracket.Unresolved, Silver: bracket.Unresolved,
							Bronze: bracket.Unresolved, Fourth: bracket.Unresolved,
						})
						So(slot(v, bracket.Semi1).P1, ShouldEqual, "A1")
						So(slot(v, bracket.Final).P1, ShouldEqual, "Winner SF1")
						So(slot(v, bracket.Final).P2, ShouldEqual, "Winner SF2")
						So(slot(v, bracket.Third).P1, ShouldEqual, "Loser SF1")
					})

					Convey("And entered knockout scores stay on their slots", func() {
						So(slot(v, bracket.Final).Sets[0][0].String(), ShouldEqual, "21")
					})
				})
			})

			Convey("And deriving again yields an equal view", func() {
				So(tournament.Derive(s, tournament.DefaultSettings()), ShouldResemble, v)
			})
		})
	})

	Convey("Given the two-group format", t, func() {
		s := model.NewSnapshot(
			model.Roster{Key: "A", Participants: []string{"Hoài & Nga", "Nam & Hoàn", "Tú & Yun"}},
			model.Roster{Key: "B", Participants: []string{"Sơn & H.Anh", "Chính & Khanh"}},
			model.Roster{Key: "Spare", Participants: []string{"X", "Y"}},
		)
		s = finish(s, "A")
		s = finish(s, "B")
		set := tournament.Settings{Format: bracket.TwoGroups}
		v := tournament.Derive(s, set)

		Convey("Then only the first two groups gate the bracket", func() {
			So(v.Ready, ShouldBeTrue)
			So(slot(v, bracket.Semi1).P2, ShouldEqual, "Sơn & H.Anh")
			So(slot(v, bracket.Semi2).P1, ShouldEqual, "Nam & Hoàn")
			So(slot(v, bracket.Semi2).P2, ShouldEqual, "Chính & Khanh")
		})

		Convey("And zero thresholds fall back to defaults", func() {
			So(v.Settings.GroupThreshold, ShouldEqual, 15)
			So(v.Settings.KnockoutThreshold, ShouldEqual, 21)
		})
	})
}

func TestDeriveStatsScope(t *testing.T) {
	Convey("Given knockout scores but no played group fixture", t, func() {
		s := model.NewSnapshot(model.Roster{Key: "A", Participants: []string{"X", "Y"}})
		s = knockout(s, bracket.Semi1, [2]int{21, 10})
		v := tournament.Derive(s, tournament.DefaultSettings())

		Convey("Then statistics ignore the knockout stage", func() {
			So(v.Stats.TotalMatches, ShouldEqual, 0)
			So(v.Stats.TotalPoints, ShouldEqual, 0)
			So(v.Stats.TopScorer.Name, ShouldEqual, "---")
		})
	})

	Convey("Given a fixture with only one side of a set entered", t, func() {
		s, err := fourGroups().WithFixtureScore("A", 0, 1, 1, 21)
		So(err, ShouldBeNil)
		v := tournament.Derive(s, tournament.DefaultSettings())
		a, _ := v.Group("A")

		Convey("Then table, profile and statistics agree it is unplayed", func() {
			for _, row := range a.Standings {
				So(row.MatchesPlayed, ShouldEqual, 0)
			}
			So(tournament.Profile(s, "Nam").Matches, ShouldEqual, 0)
			So(v.Stats.TotalMatches, ShouldEqual, 0)
		})

		Convey("When the other side is entered", func() {
			s, err = s.WithFixtureScore("A", 0, 1, 2, 19)
			So(err, ShouldBeNil)
			v := tournament.Derive(s, tournament.DefaultSettings())
			a, _ := v.Group("A")

			Convey("Then all three count one match", func() {
				nam := 0
				for _, row := range a.Standings {
					if row.Name == "Nam" {
						nam = row.MatchesPlayed
					}
				}
				So(nam, ShouldEqual, 1)
				So(tournament.Profile(s, "Nam").Matches, ShouldEqual, 1)
				So(v.Stats.TotalMatches, ShouldEqual, 1)
			})
		})
	})
}

func TestProfile(t *testing.T) {
	Convey("Given a finished group", t, func() {
		s := finish(fourGroups(), "A")

		Convey("Then profiles reflect the group results", func() {
			p := tournament.Profile(s, "Nga")
			So(p.Matches, ShouldEqual, 2)
			So(p.Wins, ShouldEqual, 1)
			So(p.Losses, ShouldEqual, 1)
		})
	})
}
