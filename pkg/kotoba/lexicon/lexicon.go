// Package lexicon holds the dictionary the assembler and disambiguator
// consult.
//
// A Lexicon indexes entries by spelling and by reading. It is filled once at
// startup, from JMdict XML, a YAML supplement or the sqlite store, and is
// read-only afterwards, so one instance may be shared by any number of
// goroutines tokenizing different sentences.
package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookup is the read side of a dictionary.
type Lookup interface {
	// LookupBySpelling returns entries listing text as a spelling, in
	// insertion order.
	LookupBySpelling(text string) []*Entry
	// LookupByReading returns entries listing text as a reading, in
	// insertion order.
	LookupByReading(text string) []*Entry
	// Exists reports whether any entry lists text as a spelling.
	Exists(text string) bool
}

// Lexicon is an in-memory Lookup.
type Lexicon struct {
	entries    []*Entry
	bySpelling map[string][]*Entry
	byReading  map[string][]*Entry
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		bySpelling: make(map[string][]*Entry),
		byReading:  make(map[string][]*Entry),
	}
}

// Add indexes e. An entry listing the same text twice is indexed once under
// that text. Add must not be called once the lexicon is shared.
func (l *Lexicon) Add(e Entry) {
	p := &e
	l.entries = append(l.entries, p)

	seen := make(map[string]bool, len(e.Spellings))
	for _, s := range e.Spellings {
		if s.Text == "" || seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		l.bySpelling[s.Text] = append(l.bySpelling[s.Text], p)
	}

	clear(seen)
	for _, r := range e.Readings {
		if r.Text == "" || seen[r.Text] {
			continue
		}
		seen[r.Text] = true
		l.byReading[r.Text] = append(l.byReading[r.Text], p)
	}
}

func (l *Lexicon) LookupBySpelling(text string) []*Entry { return l.bySpelling[text] }

func (l *Lexicon) LookupByReading(text string) []*Entry { return l.byReading[text] }

func (l *Lexicon) Exists(text string) bool { return len(l.bySpelling[text]) > 0 }

// Entries returns every entry in insertion order.
func (l *Lexicon) Entries() []*Entry { return l.entries }

// Len returns the number of entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// Stats summarizes the lexicon contents.
func (l *Lexicon) Stats() Stats {
	st := Stats{
		Entries:   len(l.entries),
		Spellings: len(l.bySpelling),
		Readings:  len(l.byReading),
	}
	for _, e := range l.entries {
		st.Senses += len(e.Senses)
	}
	return st
}

// Stats holds counts of indexed items.
type Stats struct {
	Entries   int // Number of entries
	Spellings int // Distinct spelling texts
	Readings  int // Distinct reading texts
	Senses    int // Total senses across entries
}

// LoadFromYAML adds the entries of a YAML supplement file to l.
//
// Expected format:
//
//	entries:
//	  - id: 9000001
//	    spellings: [{text: 推し, priorities: [spec1]}]
//	    readings: [{text: おし}]
//	    senses:
//	      - glosses: [{text: one's favourite}]
//	        pos: [noun]
func (l *Lexicon) LoadFromYAML(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse lexicon yaml %s: %w", path, err)
	}
	for _, e := range doc.Entries {
		l.Add(e)
	}
	return len(doc.Entries), nil
}
