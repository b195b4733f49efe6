package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() model.Snapshot {
	return model.NewSnapshot(
		model.Roster{Key: "A", Participants: []string{"Nam", "Nga", "Sơn"}},
		model.Roster{Key: "B", Participants: []string{"Tú", "Long"}},
	)
}

func mustFingerprint(s model.Snapshot) uint64 {
	fp, err := s.Fingerprint()
	So(err, ShouldBeNil)
	return fp
}

func TestNewSnapshot(t *testing.T) {
	Convey("Given rosters", t, func() {
		s := sample()

		Convey("Then each group gets its round-robin fixtures", func() {
			a, ok := s.Group("A")
			So(ok, ShouldBeTrue)
			So(len(a.Fixtures), ShouldEqual, 3)
			So(a.Fixtures[0].A, ShouldEqual, "Nam")
			So(a.Fixtures[0].B, ShouldEqual, "Nga")
			b, _ := s.Group("B")
			So(len(b.Fixtures), ShouldEqual, 1)
		})

		Convey("And unknown groups are not found", func() {
			_, ok := s.Group("Z")
			So(ok, ShouldBeFalse)
		})

		Convey("And the caller's roster slice is not retained", func() {
			names := []string{"X", "Y"}
			s := model.NewSnapshot(model.Roster{Key: "C", Participants: names})
			names[0] = "changed"
			c, _ := s.Group("C")
			So(c.Participants[0], ShouldEqual, "X")
		})
	})
}

func TestScoreEdits(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		s := sample()

		Convey("When a fixture score is entered", func() {
			next, err := s.WithFixtureScore("A", 0, 1, 2, "15")
			So(err, ShouldBeNil)

			Convey("Then the new snapshot holds the normalized value", func() {
				a, _ := next.Group("A")
				So(a.Fixtures[0].Sets[0][1], ShouldResemble, score.Of(15))
			})

			Convey("And the original snapshot is untouched", func() {
				a, _ := s.Group("A")
				So(a.Fixtures[0].Sets[0][1].IsSet(), ShouldBeFalse)
			})
		})

		Convey("When junk is entered over an existing value", func() {
			next, _ := s.WithFixtureScore("A", 0, 1, 1, 21)
			next, err := next.WithFixtureScore("A", 0, 1, 1, "abc")
			So(err, ShouldBeNil)
			a, _ := next.Group("A")
			So(a.Fixtures[0].Sets[0][0].IsSet(), ShouldBeFalse)
		})

		Convey("When coordinates are out of range", func() {
			_, err := s.WithFixtureScore("Z", 0, 1, 1, 1)
			So(errors.Is(err, model.ErrUnknownGroup), ShouldBeTrue)
			_, err = s.WithFixtureScore("A", 3, 1, 1, 1)
			So(errors.Is(err, model.ErrFixtureNotFound), ShouldBeTrue)
			_, err = s.WithFixtureScore("A", 0, 4, 1, 1)
			So(errors.Is(err, model.ErrInvalidSet), ShouldBeTrue)
			_, err = s.WithFixtureScore("A", 0, 1, 0, 1)
			So(errors.Is(err, model.ErrInvalidSide), ShouldBeTrue)
		})

		Convey("When a knockout score is entered and then reset", func() {
			next, err := s.WithKnockoutScore("semi111", 21)
			So(err, ShouldBeNil)
			So(next.Knockout.Sets(bracket.Semi1)[0][0], ShouldResemble, score.Of(21))
			So(len(s.Knockout), ShouldEqual, 0)

			reset := next.WithKnockoutReset()
			So(len(reset.Knockout), ShouldEqual, 0)
			So(reset.Groups, ShouldResemble, next.Groups)
		})

		Convey("When a knockout key is malformed", func() {
			_, err := s.WithKnockoutScore("quarter111", 21)
			So(errors.Is(err, bracket.ErrInvalidKey), ShouldBeTrue)
		})
	})
}

func TestRosterEdits(t *testing.T) {
	Convey("Given a group with a scored fixture", t, func() {
		s, err := sample().WithFixtureScore("A", 1, 1, 1, 21)
		So(err, ShouldBeNil)
		s, _ = s.WithFixtureScore("A", 1, 1, 2, 9)

		Convey("When a participant is added", func() {
			next, err := s.WithParticipantAdded("A", "Dương")
			So(err, ShouldBeNil)
			a, _ := next.Group("A")

			Convey("Then fixtures grow and existing scores survive", func() {
				So(len(a.Fixtures), ShouldEqual, 6)
				So(a.Participants, ShouldResemble, []string{"Nam", "Nga", "Sơn", "Dương"})
				So(a.Fixtures[1].A, ShouldEqual, "Nam")
				So(a.Fixtures[1].B, ShouldEqual, "Sơn")
				So(a.Fixtures[1].Sets[0], ShouldResemble, score.NewSet(21, 9))
			})

			Convey("And the old snapshot keeps its roster", func() {
				old, _ := s.Group("A")
				So(len(old.Participants), ShouldEqual, 3)
			})
		})

		Convey("When a participant is removed", func() {
			next, err := s.WithParticipantRemoved("A", "Nga")
			So(err, ShouldBeNil)
			a, _ := next.Group("A")
			So(len(a.Fixtures), ShouldEqual, 1)
			So(a.Fixtures[0].Sets[0], ShouldResemble, score.NewSet(21, 9))
		})

		Convey("When a participant moves between groups", func() {
			next, err := s.WithParticipantMoved("A", "B", "Sơn")
			So(err, ShouldBeNil)
			a, _ := next.Group("A")
			b, _ := next.Group("B")
			So(a.Participants, ShouldResemble, []string{"Nam", "Nga"})
			So(b.Participants, ShouldResemble, []string{"Tú", "Long", "Sơn"})
			So(len(b.Fixtures), ShouldEqual, 3)
			So(b.Fixtures[1].Sets.Any(), ShouldBeFalse)
		})

		Convey("When roster edits are invalid", func() {
			_, err := s.WithParticipantAdded("A", "Nam")
			So(errors.Is(err, model.ErrDuplicateParticipant), ShouldBeTrue)
			_, err = s.WithParticipantAdded("A", "")
			So(errors.Is(err, model.ErrEmptyParticipant), ShouldBeTrue)
			_, err = s.WithParticipantAdded("Z", "X")
			So(errors.Is(err, model.ErrUnknownGroup), ShouldBeTrue)
			_, err = s.WithParticipantRemoved("A", "Tú")
			So(errors.Is(err, model.ErrParticipantNotFound), ShouldBeTrue)
			_, err = s.WithParticipantMoved("A", "Z", "Nam")
			So(errors.Is(err, model.ErrUnknownGroup), ShouldBeTrue)
			_, err = s.WithParticipantMoved("B", "A", "Nam")
			So(errors.Is(err, model.ErrDuplicateParticipant), ShouldBeTrue)
		})
	})
}

func TestFingerprint(t *testing.T) {
	Convey("Given snapshots", t, func() {
		s := sample()

		Convey("Then equal content hashes equally", func() {
			So(mustFingerprint(s), ShouldEqual, mustFingerprint(sample()))
			So(mustFingerprint(s), ShouldEqual, mustFingerprint(s.Clone()))
		})

		Convey("And knockout insertion order does not matter", func() {
			x, _ := s.WithKnockoutScore("semi111", 21)
			x, _ = x.WithKnockoutScore("final232", 7)
			y, _ := s.WithKnockoutScore("final232", 7)
			y, _ = y.WithKnockoutScore("semi111", 21)
			So(mustFingerprint(x), ShouldEqual, mustFingerprint(y))
		})

		Convey("And any score change alters the hash", func() {
			x, _ := s.WithFixtureScore("A", 2, 3, 2, 11)
			So(mustFingerprint(x), ShouldNotEqual, mustFingerprint(s))
			y, _ := s.WithKnockoutScore("third111", 11)
			So(mustFingerprint(y), ShouldNotEqual, mustFingerprint(s))
		})
	})
}

func TestSnapshotJSON(t *testing.T) {
	Convey("Given a snapshot with scores", t, func() {
		s, _ := sample().WithFixtureScore("B", 0, 1, 1, 21)
		s, _ = s.WithKnockoutScore("semi211", 18)

		Convey("When it is encoded and decoded", func() {
			data, err := json.Marshal(s)
			So(err, ShouldBeNil)
			var back model.Snapshot
			So(json.Unmarshal(data, &back), ShouldBeNil)

			Convey("Then it hashes the same", func() {
				So(mustFingerprint(back), ShouldEqual, mustFingerprint(s))
			})
		})
	})
}
