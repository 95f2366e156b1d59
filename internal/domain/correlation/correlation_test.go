package correlation_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/tbtl/internal/domain/correlation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given correlated columns", t, func() {
		a := []float64{1, 2, 3, 4}
		b := []float64{2, 4, 6, 8}
		c := []float64{4, 3, 2, 1}
		flat := []float64{5, 5, 5, 5}

		Convey("When computing the matrix", func() {
			m, err := correlation.Compute([]string{"a", "b", "c", "flat"}, [][]float64{a, b, c, flat})

			Convey("Then it is symmetric with a unit diagonal", func() {
				So(err, ShouldBeNil)
				So(m.At(0, 0), ShouldAlmostEqual, 1, 1e-12)
				So(m.At(0, 1), ShouldAlmostEqual, 1, 1e-12)
				So(m.At(0, 2), ShouldAlmostEqual, -1, 1e-12)
				So(m.At(2, 0), ShouldEqual, m.At(0, 2))
			})

			Convey("And a constant column correlates as NaN", func() {
				So(math.IsNaN(m.At(3, 0)), ShouldBeTrue)
				So(math.IsNaN(m.At(3, 3)), ShouldBeTrue)
			})
		})

		Convey("When building from rows and a target", func() {
			rows := [][]float64{{1, 4}, {2, 3}, {3, 2}, {4, 1}}
			m, err := correlation.FromRows([]string{"x", "z"}, rows, b, "tbtl")

			Convey("Then the target is the last label", func() {
				So(err, ShouldBeNil)
				So(m.Labels, ShouldResemble, []string{"x", "z", "tbtl"})
				So(m.At(0, 2), ShouldAlmostEqual, 1, 1e-12)
				So(m.At(1, 2), ShouldAlmostEqual, -1, 1e-12)
			})
		})

		Convey("When the shape is wrong", func() {
			_, err := correlation.Compute([]string{"a"}, [][]float64{a, b})
			So(errors.Is(err, correlation.ErrShape), ShouldBeTrue)

			_, err = correlation.Compute([]string{"a", "b"}, [][]float64{a, b[:2]})
			So(errors.Is(err, correlation.ErrShape), ShouldBeTrue)

			_, err = correlation.FromRows([]string{"x"}, [][]float64{{1}}, []float64{1, 2}, "y")
			So(errors.Is(err, correlation.ErrShape), ShouldBeTrue)
		})
	})
}
