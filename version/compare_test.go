package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Equal versions compare to zero", t, func() {
		comp, err := Compare("1.2.3", "1.2.3")
		So(err, ShouldBeNil)
		So(comp, ShouldEqual, 0)
	})

	Convey("A 'v' prefix is ignored", t, func() {
		comp, err := Compare("v1.2.3", "1.2.3")
		So(err, ShouldBeNil)
		So(comp, ShouldEqual, 0)
	})

	Convey("Each segment is weighted in order", t, func() {
		for _, pair := range [][2]string{
			{"2.0.0", "1.9.9"},
			{"1.3.0", "1.2.9"},
			{"1.2.4", "1.2.3"},
		} {
			comp, err := Compare(pair[0], pair[1])
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 1)

			comp, err = Compare(pair[1], pair[0])
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, -1)
		}
	})

	Convey("Garbage input produces an error", t, func() {
		_, err := Compare("not-a-version", "1.2.3")
		So(err, ShouldNotBeNil)
	})
}
