package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/tbtl/internal/adapters/dataset"
	"github.com/okian/tbtl/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

const submissionsCSV = `username,assignment,pre_score,coefficient,status_encoded,is_final
alice,a1,80,1,2,True
bob,a1,,0.5,1,False
carol,a2,55.5,0,0,1
`

func TestReadSubmissions(t *testing.T) {
	Convey("Given a submissions file", t, func() {
		ctx := context.Background()

		Convey("When reading it", func() {
			tbl, err := dataset.ReadSubmissions(ctx, strings.NewReader(submissionsCSV))

			Convey("Then the header and rows are parsed", func() {
				So(err, ShouldBeNil)
				So(record.HasColumn(tbl.Columns, record.ColUsername), ShouldBeTrue)
				So(len(tbl.Rows), ShouldEqual, 3)
				So(tbl.Rows[0].Username, ShouldEqual, "alice")
				So(*tbl.Rows[0].PreScore, ShouldEqual, 80)
				So(*tbl.Rows[0].IsFinal, ShouldEqual, 1)
				So(*tbl.Rows[1].IsFinal, ShouldEqual, 0)
				So(*tbl.Rows[2].PreScore, ShouldEqual, 55.5)
			})

			Convey("And empty cells are absent", func() {
				So(tbl.Rows[1].PreScore, ShouldBeNil)
				So(*tbl.Rows[1].Coefficient, ShouldEqual, 0.5)
			})
		})

		Convey("When a column is missing entirely", func() {
			tbl, err := dataset.ReadSubmissions(ctx, strings.NewReader("username,pre_score\nalice,3\n"))

			Convey("Then the field is absent on every row", func() {
				So(err, ShouldBeNil)
				So(tbl.Rows[0].Coefficient, ShouldBeNil)
				So(*tbl.Rows[0].PreScore, ShouldEqual, 3)
			})
		})

		Convey("When a number does not parse", func() {
			_, err := dataset.ReadSubmissions(ctx, strings.NewReader("username,pre_score\nalice,abc\n"))
			So(errors.Is(err, dataset.ErrParse), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})

		Convey("When the input is empty", func() {
			_, err := dataset.ReadSubmissions(ctx, strings.NewReader(""))
			So(errors.Is(err, dataset.ErrHeader), ShouldBeTrue)
		})

		Convey("When a semicolon delimiter is configured", func() {
			tbl, err := dataset.ReadSubmissions(ctx, strings.NewReader("username;pre_score\nbob;4\n"), dataset.WithComma(';'))
			So(err, ShouldBeNil)
			So(*tbl.Rows[0].PreScore, ShouldEqual, 4)
		})
	})
}

func TestReadScores(t *testing.T) {
	Convey("Given a scores file with an upper-case TBTL column", t, func() {
		src := "\ufeffUsername,TBTL\nalice,8.5\nbob,\n"
		tbl, err := dataset.ReadScores(context.Background(), strings.NewReader(src))

		Convey("Then names are normalised and scores parsed", func() {
			So(err, ShouldBeNil)
			So(tbl.Columns, ShouldResemble, []string{"username", "tbtl"})
			So(tbl.Rows[0].Username, ShouldEqual, "alice")
			So(*tbl.Rows[0].TBTL, ShouldEqual, 8.5)
			So(tbl.Rows[1].TBTL, ShouldBeNil)
		})
	})

	Convey("Given a scores file without a username column", t, func() {
		tbl, err := dataset.ReadScores(context.Background(), strings.NewReader("student,tbtl\nalice,8\n"))

		Convey("Then loading succeeds and the header tells the reconciler", func() {
			So(err, ShouldBeNil)
			So(record.HasColumn(tbl.Columns, record.ColUsername), ShouldBeFalse)
		})
	})
}

func TestLoadFromDisk(t *testing.T) {
	Convey("Given files on disk", t, func() {
		dir := t.TempDir()
		subs := filepath.Join(dir, "subs.csv")
		scores := filepath.Join(dir, "scores.csv")
		So(os.WriteFile(subs, []byte(submissionsCSV), 0o600), ShouldBeNil)
		So(os.WriteFile(scores, []byte("username,tbtl\nalice,9\n"), 0o600), ShouldBeNil)
		ctx := context.Background()

		Convey("When loading them", func() {
			st, err := dataset.LoadSubmissions(ctx, subs)
			So(err, ShouldBeNil)
			So(len(st.Rows), ShouldEqual, 3)

			sc, err := dataset.LoadScores(ctx, scores)
			So(err, ShouldBeNil)
			So(len(sc.Rows), ShouldEqual, 1)
		})

		Convey("When a file does not exist", func() {
			_, err := dataset.LoadScores(ctx, filepath.Join(dir, "missing.csv"))
			So(errors.Is(err, dataset.ErrOpen), ShouldBeTrue)
		})
	})
}
