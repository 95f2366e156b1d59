package features_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/tbtl/internal/domain/features"
	"github.com/okian/tbtl/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func row(user string, pre, coef, status, final, tbtl float64) record.ReconciledRow {
	return record.ReconciledRow{
		SubmissionRecord: record.SubmissionRecord{
			Username:      user,
			PreScore:      record.Float(pre),
			Coefficient:   record.Float(coef),
			StatusEncoded: record.Float(status),
			IsFinal:       record.Float(final),
		},
		TBTL: record.Float(tbtl),
	}
}

func TestBuild(t *testing.T) {
	Convey("Given labeled rows for two students", t, func() {
		rows := []record.ReconciledRow{
			row("a", 10, 2, 1, 0, 8),
			row("b", 4, 1, 0, 1, 6),
			row("a", 20, 4, 2, 1, 8),
			row("a", 30, 0.5, 1, 1, 8),
		}

		Convey("When building features", func() {
			vs, err := features.Build(rows)

			Convey("Then output order matches input order", func() {
				So(err, ShouldBeNil)
				So(len(vs), ShouldEqual, len(rows))
				for i, v := range vs {
					So(v[features.Coefficient], ShouldEqual, *rows[i].Coefficient)
					So(v[features.StatusEncoded], ShouldEqual, *rows[i].StatusEncoded)
					So(v[features.IsFinal], ShouldEqual, *rows[i].IsFinal)
				}
			})

			Convey("And rows of the same username share aggregates", func() {
				for _, i := range []int{0, 2, 3} {
					So(vs[i][features.SubmissionCount], ShouldEqual, 3)
					So(vs[i][features.AvgPreScore], ShouldEqual, 20)
				}
				So(vs[1][features.SubmissionCount], ShouldEqual, 1)
				So(vs[1][features.AvgPreScore], ShouldEqual, 4)
			})

			Convey("And the ratio divides by the guarded coefficient", func() {
				So(vs[0][features.PreScoreRatio], ShouldAlmostEqual, 10/(2+features.DefaultEpsilon), 1e-12)
				So(vs[3][features.PreScoreRatio], ShouldAlmostEqual, 30/(0.5+features.DefaultEpsilon), 1e-12)
			})
		})

		Convey("When the coefficient is exactly minus epsilon", func() {
			rows[1] = row("b", 4, -1e-5, 0, 1, 6)
			vs, err := features.Build(rows)

			Convey("Then the division does not fail and is not clamped", func() {
				So(err, ShouldBeNil)
				So(math.IsInf(vs[1][features.PreScoreRatio], 1), ShouldBeTrue)
			})
		})

		Convey("When the coefficient is zero", func() {
			rows[1] = row("b", 4, 0, 0, 1, 6)
			vs, err := features.Build(rows)

			Convey("Then epsilon prevents a division by zero", func() {
				So(err, ShouldBeNil)
				So(vs[1][features.PreScoreRatio], ShouldAlmostEqual, 4/features.DefaultEpsilon, 1e-6)
			})
		})

		Convey("When a custom epsilon is configured", func() {
			vs, err := features.Build(rows, features.WithEpsilon(0.5))

			Convey("Then it should be used in the ratio", func() {
				So(err, ShouldBeNil)
				So(vs[1][features.PreScoreRatio], ShouldAlmostEqual, 4/1.5, 1e-12)
			})
		})

		Convey("When a row lacks a dependency column", func() {
			rows[2].IsFinal = nil
			vs, err := features.Build(rows)

			Convey("Then it should fail with a missing column error", func() {
				So(vs, ShouldBeNil)
				So(errors.Is(err, features.ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, record.ColIsFinal)
			})
		})

		Convey("When a row lacks pre_score", func() {
			rows[0].PreScore = nil
			_, err := features.Build(rows)

			Convey("Then the error names pre_score", func() {
				So(errors.Is(err, features.ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, record.ColPreScore)
			})
		})

		Convey("When precomputed aggregates are supplied", func() {
			aggs, err := features.Aggregate(rows[:2])
			So(err, ShouldBeNil)
			vs, err := features.Build(rows[:2], features.WithAggregates(aggs))

			Convey("Then the vectors use those aggregates", func() {
				So(err, ShouldBeNil)
				So(vs[0][features.SubmissionCount], ShouldEqual, 1)
				So(vs[0][features.AvgPreScore], ShouldEqual, 10)
			})

			Convey("And an unknown username fails", func() {
				_, err := features.Build(rows, features.WithAggregates(features.Aggregates{"a": {Count: 1}}))
				So(errors.Is(err, features.ErrUnknownUsername), ShouldBeTrue)
			})
		})
	})
}

func TestMatrixAndTargets(t *testing.T) {
	Convey("Given feature vectors", t, func() {
		vs := []features.Vector{{1, 2, 3, 4, 5, 6}, {6, 5, 4, 3, 2, 1}}

		Convey("When converting to a matrix", func() {
			m := features.Matrix(vs)

			Convey("Then rows are independent copies", func() {
				So(m, ShouldResemble, [][]float64{{1, 2, 3, 4, 5, 6}, {6, 5, 4, 3, 2, 1}})
				m[0][0] = 100
				So(vs[0][0], ShouldEqual, 1)
			})
		})

		Convey("When extracting targets", func() {
			rows := []record.ReconciledRow{row("a", 1, 1, 1, 1, 7), row("b", 1, 1, 1, 1, 9)}
			y, err := features.Targets(rows)
			So(err, ShouldBeNil)
			So(y, ShouldResemble, []float64{7, 9})

			rows[1].TBTL = nil
			_, err = features.Targets(rows)
			So(errors.Is(err, features.ErrMissingColumn), ShouldBeTrue)
		})
	})
}
