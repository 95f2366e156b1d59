package record_test

import (
	"testing"

	"github.com/okian/tbtl/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReconciledRow(t *testing.T) {
	Convey("Given reconciled rows", t, func() {
		Convey("When the row has a final score", func() {
			row := record.ReconciledRow{
				SubmissionRecord: record.SubmissionRecord{Username: "u1"},
				TBTL:             record.Float(7.5),
			}

			Convey("Then it should be labeled", func() {
				So(row.Labeled(), ShouldBeTrue)
				So(*row.TBTL, ShouldEqual, 7.5)
			})
		})

		Convey("When the row has no final score", func() {
			row := record.ReconciledRow{SubmissionRecord: record.SubmissionRecord{Username: "u2"}}

			Convey("Then it should be unlabeled", func() {
				So(row.Labeled(), ShouldBeFalse)
			})
		})
	})
}

func TestHasColumn(t *testing.T) {
	Convey("Given a header", t, func() {
		columns := []string{record.ColUsername, record.ColPreScore}

		So(record.HasColumn(columns, record.ColUsername), ShouldBeTrue)
		So(record.HasColumn(columns, record.ColTBTL), ShouldBeFalse)
		So(record.HasColumn(nil, record.ColUsername), ShouldBeFalse)
	})
}
