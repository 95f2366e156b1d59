// Package dataset loads submission and score tables from delimited text.
package dataset

// Option applies a configuration option to the reader.
type Option func(*reader)

// WithComma sets the field delimiter (default ',').
func WithComma(c rune) Option {
	return func(r *reader) {
		if c != 0 {
			r.comma = c
		}
	}
}
