// Package dataset loads submission and score tables from delimited text.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/tbtl/internal/domain/record"
)

// ctxCheckEvery bounds how many rows are read between context checks.
const ctxCheckEvery = 4096

type reader struct {
	comma rune
}

func newReader(opts []Option) *reader {
	r := &reader{comma: ','}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// table is a parsed file: lowercased header plus raw rows.
type table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

func (r *reader) read(ctx context.Context, src io.Reader) (*table, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		t.columns = append(t.columns, name)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func (t *table) text(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric cell. Empty and NaN cells are absent; true/false
// cells map to 1/0.
func (t *table) number(row []string, col string, line int) (*float64, error) {
	s := t.text(row, col)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return nil, nil
	case "true":
		return record.Float(1), nil
	case "false":
		return record.Float(0), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d column %s: %q", ErrParse, line, col, s)
	}
	return &v, nil
}

// ReadSubmissions parses a submission table. Missing numeric columns leave
// the fields absent; the feature builder decides whether that is fatal.
func ReadSubmissions(ctx context.Context, src io.Reader, opts ...Option) (record.SubmissionTable, error) {
	t, err := newReader(opts).read(ctx, src)
	if err != nil {
		return record.SubmissionTable{}, err
	}

	rows := make([]record.SubmissionRecord, len(t.rows))
	for i, raw := range t.rows {
		line := i + 2
		rec := record.SubmissionRecord{Username: t.text(raw, record.ColUsername)}
		fields := []struct {
			col string
			dst **float64
		}{
			{record.ColPreScore, &rec.PreScore},
			{record.ColCoefficient, &rec.Coefficient},
			{record.ColStatusEncoded, &rec.StatusEncoded},
			{record.ColIsFinal, &rec.IsFinal},
		}
		for _, f := range fields {
			v, err := t.number(raw, f.col, line)
			if err != nil {
				return record.SubmissionTable{}, err
			}
			*f.dst = v
		}
		rows[i] = rec
	}
	return record.SubmissionTable{Columns: t.columns, Rows: rows}, nil
}

// ReadScores parses a score table. The score column may be spelled tbtl or TBTL.
func ReadScores(ctx context.Context, src io.Reader, opts ...Option) (record.ScoreTable, error) {
	t, err := newReader(opts).read(ctx, src)
	if err != nil {
		return record.ScoreTable{}, err
	}

	rows := make([]record.ScoreRecord, len(t.rows))
	for i, raw := range t.rows {
		v, err := t.number(raw, record.ColTBTL, i+2)
		if err != nil {
			return record.ScoreTable{}, err
		}
		rows[i] = record.ScoreRecord{Username: t.text(raw, record.ColUsername), TBTL: v}
	}
	return record.ScoreTable{Columns: t.columns, Rows: rows}, nil
}

// LoadSubmissions reads a submission table from path.
func LoadSubmissions(ctx context.Context, path string, opts ...Option) (record.SubmissionTable, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return record.SubmissionTable{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return ReadSubmissions(ctx, f, opts...)
}

// LoadScores reads a score table from path.
func LoadScores(ctx context.Context, path string, opts ...Option) (record.ScoreTable, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return record.ScoreTable{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return ReadScores(ctx, f, opts...)
}
