// Package lexicon holds the read-only dictionary tables and resolves surface
// tokens to dictionary entries.
package lexicon

import "github.com/verte-zerg/kovocab/internal/model"

// Tables groups the lookup data of one session. Tables are read-only once
// a Resolver or Ranker has been built on them.
type Tables struct {
	Dictionary  map[string]model.Entry
	Inflections map[string]string
	Frequency   map[string]model.FrequencyEntry
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		Dictionary:  map[string]model.Entry{},
		Inflections: map[string]string{},
		Frequency:   map[string]model.FrequencyEntry{},
	}
}

// Empty reports whether no table carries data.
func (t *Tables) Empty() bool {
	return t == nil || (len(t.Dictionary) == 0 && len(t.Inflections) == 0 && len(t.Frequency) == 0)
}

// Merge copies every row of other into t, overwriting existing keys.
func (t *Tables) Merge(other *Tables) {
	if other == nil {
		return
	}
	for k, v := range other.Dictionary {
		t.Dictionary[k] = v
	}
	for k, v := range other.Inflections {
		t.Inflections[k] = v
	}
	for k, v := range other.Frequency {
		t.Frequency[k] = v
	}
}

// Entry returns the dictionary entry for an exact headword.
func (t *Tables) Entry(headword string) (model.Entry, bool) {
	if t == nil {
		return model.Entry{}, false
	}
	e, ok := t.Dictionary[headword]
	if ok && e.Headword == "" {
		e.Headword = headword
	}
	return e, ok
}

// Base returns the headword recorded for a conjugated surface form.
func (t *Tables) Base(surface string) (string, bool) {
	if t == nil {
		return "", false
	}
	h, ok := t.Inflections[surface]
	return h, ok
}

// Rank returns the frequency row of a headword.
func (t *Tables) Rank(headword string) (model.FrequencyEntry, bool) {
	if t == nil {
		return model.FrequencyEntry{}, false
	}
	f, ok := t.Frequency[headword]
	return f, ok
}
