package qkern

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCounts(t *testing.T) {
	Convey("Given a counts mapping", t, func() {
		counts := Counts{"00": 300, "01": 100, "11": 112}

		Convey("Shots should total every bin", func() {
			So(counts.Shots(), ShouldEqual, 512)
		})

		Convey("Absent bins should read as zero", func() {
			So(counts.Get("10"), ShouldEqual, 0)
		})

		Convey("Probabilities should be relative frequencies", func() {
			p := counts.Probabilities()
			So(p["00"], ShouldAlmostEqual, 300.0/512.0, 1e-12)
			So(p["01"], ShouldAlmostEqual, 100.0/512.0, 1e-12)
		})

		Convey("AllZero should look up the all-zero outcome", func() {
			So(counts.AllZero(2), ShouldEqual, 300)
		})
	})

	Convey("Given empty counts", t, func() {
		empty := Counts{}
		So(empty.Shots(), ShouldEqual, 0)
		So(empty.Probabilities(), ShouldBeEmpty)
		So(empty.AllZero(3), ShouldEqual, 0)
	})
}
