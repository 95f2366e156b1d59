package regression

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGrowTree(t *testing.T) {
	Convey("Given two clusters", t, func() {
		X := [][]float64{{1, 5}, {2, 5}, {3, 5}, {10, 5}, {11, 5}, {12, 5}}
		y := []float64{1, 1, 1, 4, 4, 4}
		rows := []int{0, 1, 2, 3, 4, 5}

		Convey("When growing an unregularised tree", func() {
			tr := growTree(X, y, rows, treeParams{minSamplesSplit: 2, minSamplesLeaf: 1}, nil)

			Convey("Then one split on the informative feature separates them", func() {
				So(len(tr.nodes), ShouldEqual, 3)
				So(tr.nodes[0].feature, ShouldEqual, 0)
				So(tr.nodes[0].threshold, ShouldEqual, 6.5)
				So(tr.predict([]float64{0, 0}), ShouldEqual, 1)
				So(tr.predict([]float64{20, 0}), ShouldEqual, 4)
			})
		})

		Convey("When leaves are regularised", func() {
			tr := growTree(X, y, rows, treeParams{minSamplesSplit: 2, minSamplesLeaf: 1, lambda: 1}, nil)

			Convey("Then leaf values shrink towards zero", func() {
				So(tr.predict([]float64{0, 0}), ShouldEqual, 3.0/4.0)
				So(tr.predict([]float64{20, 0}), ShouldEqual, 12.0/4.0)
			})
		})

		Convey("When the minimum leaf size forbids the split", func() {
			tr := growTree(X, y, rows, treeParams{minSamplesSplit: 2, minSamplesLeaf: 4}, nil)
			So(len(tr.nodes), ShouldEqual, 1)
			So(tr.predict([]float64{0, 0}), ShouldEqual, 2.5)
		})

		Convey("When rows repeat as in a bootstrap sample", func() {
			tr := growTree(X, y, []int{0, 0, 0, 5}, treeParams{minSamplesSplit: 2, minSamplesLeaf: 1}, nil)
			So(tr.predict([]float64{1, 5}), ShouldEqual, 1)
			So(tr.predict([]float64{12, 5}), ShouldEqual, 4)
		})
	})

	Convey("Midpoints stay below the upper value", t, func() {
		So(midpoint(1, 2), ShouldEqual, 1.5)
		So(midpoint(1, 1+1e-16*2), ShouldBeLessThan, 1+1e-16*2)
	})
}
