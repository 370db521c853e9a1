package store

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "drillbot.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestReactions(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := openTestStore(t)

		Convey("When two users like and one dislikes a message", func() {
			_, err := s.React(1, 100, 10, Like)
			So(err, ShouldBeNil)
			_, err = s.React(1, 100, 11, Like)
			So(err, ShouldBeNil)
			_, err = s.React(1, 100, 12, Dislike)
			So(err, ShouldBeNil)

			Convey("Counts reflect every vote", func() {
				likes, dislikes, err := s.Counts(1, 100)
				So(err, ShouldBeNil)
				So(likes, ShouldEqual, 2)
				So(dislikes, ShouldEqual, 1)
			})

			Convey("Repeating the same reaction withdraws it", func() {
				kept, err := s.React(1, 100, 10, Like)
				So(err, ShouldBeNil)
				So(kept, ShouldBeFalse)

				likes, _, err := s.Counts(1, 100)
				So(err, ShouldBeNil)
				So(likes, ShouldEqual, 1)
			})

			Convey("Switching kinds replaces instead of stacking", func() {
				kept, err := s.React(1, 100, 10, Dislike)
				So(err, ShouldBeNil)
				So(kept, ShouldBeTrue)

				likes, dislikes, err := s.Counts(1, 100)
				So(err, ShouldBeNil)
				So(likes, ShouldEqual, 1)
				So(dislikes, ShouldEqual, 2)
			})
		})

		Convey("An unknown kind is rejected", func() {
			_, err := s.React(1, 100, 10, "meh")
			So(err, ShouldNotBeNil)
		})

		Convey("Messages are counted independently", func() {
			_, err := s.React(1, 100, 10, Like)
			So(err, ShouldBeNil)

			likes, dislikes, err := s.Counts(1, 200)
			So(err, ShouldBeNil)
			So(likes, ShouldEqual, 0)
			So(dislikes, ShouldEqual, 0)
		})
	})
}

func TestPolls(t *testing.T) {
	Convey("Given a saved poll", t, func() {
		s := openTestStore(t)
		So(s.SavePoll("p1", 1, "Tea or coffee?", "Tea", "Coffee"), ShouldBeNil)

		Convey("Votes accumulate per option", func() {
			So(s.Vote("p1", 10, 0), ShouldBeNil)
			So(s.Vote("p1", 11, 0), ShouldBeNil)
			So(s.Vote("p1", 12, 1), ShouldBeNil)

			a, b, err := s.Tally("p1")
			So(err, ShouldBeNil)
			So(a, ShouldEqual, 2)
			So(b, ShouldEqual, 1)
		})

		Convey("A revote replaces the previous choice", func() {
			So(s.Vote("p1", 10, 0), ShouldBeNil)
			So(s.Vote("p1", 10, 1), ShouldBeNil)

			a, b, err := s.Tally("p1")
			So(err, ShouldBeNil)
			So(a, ShouldEqual, 0)
			So(b, ShouldEqual, 1)
		})

		Convey("An out-of-range choice is rejected", func() {
			So(s.Vote("p1", 10, 2), ShouldNotBeNil)
		})
	})
}
