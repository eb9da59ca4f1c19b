// Package filter narrows assembled tokens down to the ones worth studying.
//
// Stages run in a fixed order, cheapest first: ignore list, notability,
// learnability, then the frequency gate, which consults the dictionary for
// every token that reaches it. Each stage is a pure predicate, so the order
// changes cost but never the surviving set.
package filter

import (
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// LevelTable returns the proficiency level of a word.
type LevelTable interface {
	GetLevel(word string) (int, bool)
}

// SpellingSelector picks the spelling of an entry that matches text,
// resolving the entry itself when entry is nil.
type SpellingSelector interface {
	SelectSpelling(text string, entry *lexicon.Entry) *lexicon.Spelling
}

// DefaultNotableTags are the JMdict priority tags that mark a word as
// common: the "ichimango" and newspaper top lists.
var DefaultNotableTags = []string{"ichi1", "news1"}

// NonNotable parts of speech never become study items.
var NonNotable = map[token.PartOfSpeech]bool{
	token.Particle:     true,
	token.Symbol:       true,
	token.Filler:       true,
	token.Interjection: true,
}

// Options toggles the stages.
type Options struct {
	Ignore    bool // drop roots on the ignore list
	Frequency bool // keep roots with a level or a notable spelling
	Notable   bool // drop particles, symbols, fillers and interjections
	Learnable bool // drop roots with latin letters or digits and lone kana
}

// Stage is one named predicate. Keep reports whether t survives.
type Stage struct {
	Name string
	Keep func(t token.Token) bool
}

// Pipeline applies the enabled stages.
type Pipeline struct {
	ignore      *IgnoreList
	levels      LevelTable
	spellings   SpellingSelector
	notableTags []string
}

// New creates a pipeline. levels and spellings may be nil when the
// frequency gate is never enabled.
func New(ignore *IgnoreList, levels LevelTable, spellings SpellingSelector, notableTags []string) *Pipeline {
	if notableTags == nil {
		notableTags = DefaultNotableTags
	}
	return &Pipeline{
		ignore:      ignore,
		levels:      levels,
		spellings:   spellings,
		notableTags: notableTags,
	}
}

// Stages returns the enabled stages in application order.
func (p *Pipeline) Stages(opts Options) []Stage {
	var stages []Stage
	if opts.Ignore {
		stages = append(stages, Stage{Name: "ignore", Keep: p.notIgnored})
	}
	if opts.Notable {
		stages = append(stages, Stage{Name: "notable", Keep: Notable})
	}
	if opts.Learnable {
		stages = append(stages, Stage{Name: "learnable", Keep: func(t token.Token) bool { return Learnable(t.RootText) }})
	}
	if opts.Frequency {
		stages = append(stages, Stage{Name: "frequency", Keep: p.Frequent})
	}
	return stages
}

// Apply returns the tokens that pass every enabled stage, in input order.
// The input slice is not modified.
func (p *Pipeline) Apply(toks []token.Token, opts Options) []token.Token {
	stages := p.Stages(opts)
	out := make([]token.Token, 0, len(toks))
next:
	for _, t := range toks {
		for _, s := range stages {
			if !s.Keep(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

// Ignore exposes the ignore list so callers can extend it.
func (p *Pipeline) Ignore() *IgnoreList { return p.ignore }

func (p *Pipeline) notIgnored(t token.Token) bool {
	return !p.ignore.Contains(t.RootText)
}

// Frequent reports whether t has a proficiency level or its most applicable
// spelling carries a notable priority tag.
func (p *Pipeline) Frequent(t token.Token) bool {
	if p.levels != nil {
		if _, ok := p.levels.GetLevel(t.RootText); ok {
			return true
		}
	}
	if p.spellings == nil {
		return false
	}
	s := p.spellings.SelectSpelling(t.RootText, nil)
	return s != nil && s.HasPriority(p.notableTags...)
}

// Notable reports whether t's part of speech is worth studying.
func Notable(t token.Token) bool {
	return !NonNotable[t.PartOfSpeech]
}
