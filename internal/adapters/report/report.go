// Package report renders pipeline results for people: the metric table,
// the feature correlation heatmap and the unlabeled predictions.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/tbtl/internal/domain/correlation"
	"github.com/okian/tbtl/internal/domain/evaluate"
	"github.com/okian/tbtl/internal/domain/record"
)

// metricsTitle heads the metric table.
const metricsTitle = "Model Evaluation Results:"

// WriteMetrics prints one line per model:
// "<name>: MSE=<4dp>, MAE=<4dp>, R2=<4dp>".
func WriteMetrics(w io.Writer, r evaluate.Report) error {
	if _, err := fmt.Fprintln(w, metricsTitle); err != nil {
		return err
	}
	for _, e := range r.Entries() {
		if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntry formats a single report line.
func FormatEntry(e evaluate.Entry) string {
	return fmt.Sprintf("%s: MSE=%.4f, MAE=%.4f, R2=%.4f", e.Name, e.Scores.MSE, e.Scores.MAE, e.Scores.R2)
}

// WriteHeatmap prints the correlation matrix as an annotated grid, one row
// per label, values rounded to two decimals. Every cell also gets a shade
// glyph so strong correlations stand out in a terminal.
func WriteHeatmap(w io.Writer, m correlation.Matrix) error {
	width := utf8.RuneCountInString("▓ -1.00")
	for _, l := range m.Labels {
		width = max(width, len(l))
	}

	var b strings.Builder
	b.WriteString("Correlation Matrix\n")
	fmt.Fprintf(&b, "%-*s", width, "")
	for _, l := range m.Labels {
		fmt.Fprintf(&b, " %*s", width, l)
	}
	b.WriteByte('\n')
	for i, l := range m.Labels {
		fmt.Fprintf(&b, "%-*s", width, l)
		for j := range m.Labels {
			v := m.At(i, j)
			cell := "nan"
			if !math.IsNaN(v) {
				cell = strconv.FormatFloat(v, 'f', 2, 64)
			}
			b.WriteByte(' ')
			padLeft(&b, string(shade(v))+" "+cell, width)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// padLeft right-aligns s in a field of width terminal columns. Padding is
// counted in runes because the shade glyphs are multi-byte.
func padLeft(b *strings.Builder, s string, width int) {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		b.WriteString(strings.Repeat(" ", n))
	}
	b.WriteString(s)
}

// shade maps |r| to a block glyph; NaN is blank.
func shade(v float64) rune {
	a := math.Abs(v)
	switch {
	case math.IsNaN(v):
		return ' '
	case a >= 0.75:
		return '█'
	case a >= 0.5:
		return '▓'
	case a >= 0.25:
		return '▒'
	default:
		return '░'
	}
}

// WritePredictions writes username,predicted_tbtl,rows as CSV.
func WritePredictions(w io.Writer, preds []record.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{record.ColUsername, "predicted_" + record.ColTBTL, "rows"}); err != nil {
		return err
	}
	for _, p := range preds {
		if err := cw.Write([]string{
			p.Username,
			strconv.FormatFloat(p.TBTL, 'f', 4, 64),
			strconv.Itoa(p.Rows),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
