package split_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/okian/tbtl/internal/domain/split"
	. "github.com/smartystreets/goconvey/convey"
)

func dataset(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		X[i] = []float64{float64(i), float64(i * 2)}
		y[i] = float64(i)
	}
	return X, y
}

func TestSplit(t *testing.T) {
	Convey("Given 100 labeled rows", t, func() {
		X, y := dataset(100)

		Convey("When splitting with fraction 0.1 and seed 42", func() {
			res, err := split.Split(X, y, 0.1, 42)

			Convey("Then the test partition has 10 rows and train 90", func() {
				So(err, ShouldBeNil)
				So(len(res.TestX), ShouldEqual, 10)
				So(len(res.TestY), ShouldEqual, 10)
				So(len(res.TrainX), ShouldEqual, 90)
				So(len(res.TrainY), ShouldEqual, 90)
			})

			Convey("And the partitions are disjoint and exhaustive", func() {
				all := append(append([]int{}, res.TrainIndex...), res.TestIndex...)
				sort.Ints(all)
				for i, v := range all {
					So(v, ShouldEqual, i)
				}
			})

			Convey("And rows keep their labels", func() {
				for i, j := range res.TestIndex {
					So(res.TestY[i], ShouldEqual, y[j])
					So(res.TestX[i][0], ShouldEqual, X[j][0])
				}
			})

			Convey("And the same seed reproduces the same membership", func() {
				again, err := split.Split(X, y, 0.1, 42)
				So(err, ShouldBeNil)
				So(again.TestIndex, ShouldResemble, res.TestIndex)
				So(again.TrainIndex, ShouldResemble, res.TrainIndex)
			})

			Convey("And a different seed gives a different partition", func() {
				other, err := split.Split(X, y, 0.1, 7)
				So(err, ShouldBeNil)
				So(other.TestIndex, ShouldNotResemble, res.TestIndex)
			})
		})

		Convey("When the fraction is out of range", func() {
			for _, f := range []float64{0, 1, -0.5, 1.5} {
				_, err := split.Split(X, y, f, 42)
				So(errors.Is(err, split.ErrInvalidFraction), ShouldBeTrue)
			}
		})

		Convey("When labels do not match rows", func() {
			_, err := split.Split(X, y[:50], 0.1, 42)
			So(errors.Is(err, split.ErrLengthMismatch), ShouldBeTrue)
		})
	})

	Convey("Given fewer than two rows", t, func() {
		X, y := dataset(1)
		_, err := split.Split(X, y, 0.5, 42)
		So(errors.Is(err, split.ErrInsufficientData), ShouldBeTrue)
	})

	Convey("Given a fraction that would empty the training partition", t, func() {
		X, y := dataset(2)
		_, err := split.Split(X, y, 0.9, 42)
		So(errors.Is(err, split.ErrInsufficientData), ShouldBeTrue)
	})

	Convey("Given two rows and an even split", t, func() {
		X, y := dataset(2)
		res, err := split.Split(X, y, 0.5, 42)
		So(err, ShouldBeNil)
		So(len(res.TrainX), ShouldEqual, 1)
		So(len(res.TestX), ShouldEqual, 1)
	})
}

func TestTestSize(t *testing.T) {
	Convey("Test size rounds up", t, func() {
		So(split.TestSize(100, 0.1), ShouldEqual, 10)
		So(split.TestSize(101, 0.1), ShouldEqual, 11)
		So(split.TestSize(7, 0.25), ShouldEqual, 2)
		So(split.TestSize(3, 0.3), ShouldEqual, 1)
	})
}
