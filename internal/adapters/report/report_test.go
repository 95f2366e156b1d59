package report_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/okian/tbtl/internal/adapters/report"
	"github.com/okian/tbtl/internal/domain/correlation"
	"github.com/okian/tbtl/internal/domain/evaluate"
	"github.com/okian/tbtl/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteMetrics(t *testing.T) {
	Convey("Given a report with two models", t, func() {
		var b evaluate.Builder
		So(b.Add("LinearRegression", evaluate.Scores{MSE: 1.23456, MAE: 0.5, R2: 0.87654}), ShouldBeNil)
		So(b.Add("RandomForest", evaluate.Scores{MSE: 0.1, MAE: 0.2, R2: -0.00001}), ShouldBeNil)
		r := b.Report()

		Convey("When writing it", func() {
			var buf bytes.Buffer
			err := report.WriteMetrics(&buf, r)

			Convey("Then each model gets one formatted line in order", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual, "Model Evaluation Results:\n"+
					"LinearRegression: MSE=1.2346, MAE=0.5000, R2=0.8765\n"+
					"RandomForest: MSE=0.1000, MAE=0.2000, R2=-0.0000\n")
			})
		})
	})
}

func TestWriteHeatmap(t *testing.T) {
	Convey("Given a correlation matrix", t, func() {
		m := correlation.Matrix{
			Labels: []string{"a", "tbtl"},
			Values: [][]float64{{1, -0.3}, {-0.3, math.NaN()}},
		}

		Convey("When rendering it", func() {
			var buf bytes.Buffer
			So(report.WriteHeatmap(&buf, m), ShouldBeNil)
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

			Convey("Then there is a title, a header and one row per label", func() {
				So(len(lines), ShouldEqual, 4)
				So(lines[0], ShouldEqual, "Correlation Matrix")
				So(lines[1], ShouldContainSubstring, "tbtl")
				So(lines[2], ShouldContainSubstring, "1.00")
				So(lines[2], ShouldContainSubstring, "-0.30")
				So(lines[3], ShouldContainSubstring, "nan")
			})

			Convey("Then header and rows line up column for column", func() {
				for _, l := range lines[2:] {
					So(utf8.RuneCountInString(l), ShouldEqual, utf8.RuneCountInString(lines[1]))
				}
				So(lines[2], ShouldContainSubstring, "█ 1.00")
				So(lines[2], ShouldContainSubstring, "▒ -0.30")
			})
		})
	})
}

func TestWritePredictions(t *testing.T) {
	Convey("Given predictions", t, func() {
		preds := []record.Prediction{{Username: "bob", TBTL: 7.25, Rows: 3}}
		var buf bytes.Buffer
		So(report.WritePredictions(&buf, preds), ShouldBeNil)
		So(buf.String(), ShouldEqual, "username,predicted_tbtl,rows\nbob,7.2500,3\n")
	})
}
