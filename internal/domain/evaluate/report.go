package evaluate

import "fmt"

// Entry is one model's line in a Report.
type Entry struct {
	Name   string
	Scores Scores
}

// Report maps model names to scores and keeps insertion order.
// A Report is not modified after Builder.Report returns it.
type Report struct {
	entries []Entry
	index   map[string]int
}

// Entries returns the report lines in insertion order.
func (r Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the model names in insertion order.
func (r Report) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Get returns the scores recorded for name.
func (r Report) Get(name string) (Scores, bool) {
	i, ok := r.index[name]
	if !ok {
		return Scores{}, false
	}
	return r.entries[i].Scores, true
}

// Len returns the number of models in the report.
func (r Report) Len() int {
	return len(r.entries)
}

// Best returns the entry with the highest R2; ties keep the earlier entry.
func (r Report) Best() (Entry, bool) {
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	best := r.entries[0]
	for _, e := range r.entries[1:] {
		if e.Scores.R2 > best.Scores.R2 {
			best = e
		}
	}
	return best, true
}

// Builder accumulates report entries.
type Builder struct {
	entries []Entry
	index   map[string]int
}

// Add appends the scores of a model. Names must be unique.
func (b *Builder) Add(name string, s Scores) error {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if _, dup := b.index[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, name)
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, Entry{Name: name, Scores: s})
	return nil
}

// Report freezes the accumulated entries. The builder should not be reused.
func (b *Builder) Report() Report {
	r := Report{entries: b.entries, index: b.index}
	b.entries, b.index = nil, nil
	return r
}
