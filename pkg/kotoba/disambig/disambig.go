// Package disambig picks the dictionary entry, spelling and reading that
// best fit a surface text.
package disambig

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
)

// Rule picks an entry among candidates, or returns nil to defer to the next
// rule.
type Rule struct {
	Name string
	Pick func(text string, candidates []*lexicon.Entry) *lexicon.Entry
}

// Rules are the tie-break rules in the order SelectEntry tries them.
var Rules = []Rule{
	{Name: "sole-candidate", Pick: soleCandidate},
	{Name: "primary-spelling", Pick: primarySpelling},
	{Name: "reading-match", Pick: readingMatch},
	{Name: "first-candidate", Pick: firstCandidate},
}

func soleCandidate(_ string, cs []*lexicon.Entry) *lexicon.Entry {
	if len(cs) == 1 {
		return cs[0]
	}
	return nil
}

// primarySpelling prefers an entry whose headword is text, so a spelling
// that only appears as a reading elsewhere still resolves to its own entry.
func primarySpelling(text string, cs []*lexicon.Entry) *lexicon.Entry {
	for _, c := range cs {
		if len(c.Spellings) > 0 && c.Spellings[0].Text == text {
			return c
		}
	}
	return nil
}

func readingMatch(text string, cs []*lexicon.Entry) *lexicon.Entry {
	for _, c := range cs {
		if c.HasReading(text) {
			return c
		}
	}
	return nil
}

func firstCandidate(_ string, cs []*lexicon.Entry) *lexicon.Entry {
	if len(cs) > 0 {
		return cs[0]
	}
	return nil
}

// Disambiguator resolves texts against a lexicon. It never mutates the
// lexicon and is safe for concurrent use.
type Disambiguator struct {
	lex   lexicon.Lookup
	rules []Rule
	memo  *lru.Cache[string, *lexicon.Entry]
}

// Option configures a Disambiguator.
type Option func(*Disambiguator)

// WithMemo caches up to size SelectEntry results. Sizes below one disable
// the cache.
func WithMemo(size int) Option {
	return func(d *Disambiguator) {
		if size < 1 {
			d.memo = nil
			return
		}
		d.memo, _ = lru.New[string, *lexicon.Entry](size)
	}
}

// WithRules replaces the tie-break rules.
func WithRules(rules ...Rule) Option {
	return func(d *Disambiguator) { d.rules = rules }
}

// New creates a Disambiguator over lex.
func New(lex lexicon.Lookup, opts ...Option) *Disambiguator {
	d := &Disambiguator{lex: lex, rules: Rules}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Candidates returns the entries spelled text followed by the entries read
// as text. An entry matching both ways appears twice.
func (d *Disambiguator) Candidates(text string) []*lexicon.Entry {
	bySpelling := d.lex.LookupBySpelling(text)
	byReading := d.lex.LookupByReading(text)
	out := make([]*lexicon.Entry, 0, len(bySpelling)+len(byReading))
	out = append(out, bySpelling...)
	return append(out, byReading...)
}

// SelectEntry returns the most applicable entry for text, or nil.
func (d *Disambiguator) SelectEntry(text string) *lexicon.Entry {
	if d.memo != nil {
		if e, ok := d.memo.Get(text); ok {
			return e
		}
	}
	e := d.selectEntry(text)
	if d.memo != nil {
		d.memo.Add(text, e)
	}
	return e
}

func (d *Disambiguator) selectEntry(text string) *lexicon.Entry {
	cs := d.Candidates(text)
	if len(cs) == 0 {
		return nil
	}
	for _, r := range d.rules {
		if e := r.Pick(text, cs); e != nil {
			return e
		}
	}
	return nil
}

// SelectSpelling returns a copy of the spelling of entry whose text is
// text. A nil entry is resolved with SelectEntry first. It returns nil when
// nothing matches.
func (d *Disambiguator) SelectSpelling(text string, entry *lexicon.Entry) *lexicon.Spelling {
	if entry == nil {
		entry = d.SelectEntry(text)
	}
	if entry == nil {
		return nil
	}
	for i := range entry.Spellings {
		if entry.Spellings[i].Text == text {
			s := entry.Spellings[i]
			s.Priorities = slices.Clone(s.Priorities)
			return &s
		}
	}
	return nil
}

// SelectReading is SelectSpelling for readings.
func (d *Disambiguator) SelectReading(text string, entry *lexicon.Entry) *lexicon.Reading {
	if entry == nil {
		entry = d.SelectEntry(text)
	}
	if entry == nil {
		return nil
	}
	for i := range entry.Readings {
		if entry.Readings[i].Text == text {
			r := entry.Readings[i]
			r.Priorities = slices.Clone(r.Priorities)
			return &r
		}
	}
	return nil
}

// HasEntry reports whether any entry is spelled text. Readings are not
// consulted and no tie-break runs.
func (d *Disambiguator) HasEntry(text string) bool {
	return d.lex.Exists(text)
}
