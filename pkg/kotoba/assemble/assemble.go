// Package assemble turns the raw segments of one sentence into tokens a
// learner would recognize as single words.
//
// Segments are linked into a token.Chain. A cursor walks the chain from the
// head; at each position the merge rules are applied, first match wins,
// until none fires. Verb stems absorb their auxiliaries and suffixes this
// way, and nouns absorb a following light verb. Runs of nouns are then
// scanned for spellings the lexicon knows as a whole; every hit is appended
// after the chain as an extra candidate.
package assemble

import (
	"github.com/cognicore/kotoba/pkg/kotoba/segment"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// Checker reports whether the lexicon has an entry spelled exactly s.
type Checker interface {
	HasEntry(s string) bool
}

// Tags are the lemma and subtype values the merge rules compare against.
type Tags struct {
	LightVerb           string
	ConjunctiveParticle string
	NotIndependent      string
	Suffix              string
}

// DefaultTags matches the IPA dictionary.
var DefaultTags = Tags{
	LightVerb:           segment.LightVerb,
	ConjunctiveParticle: segment.SubtypeConjunctiveParticle,
	NotIndependent:      segment.SubtypeNotIndependent,
	Suffix:              segment.SubtypeSuffix,
}

// Engine assembles tokens. It holds no per-call state and may be shared.
type Engine struct {
	checker Checker
	rules   []rule
}

// New builds an engine. A nil checker disables compound discovery.
func New(checker Checker, tags Tags) *Engine {
	return &Engine{checker: checker, rules: mergeRules(tags)}
}

// Assemble builds tokens from the segments of sentence. The result holds the
// surviving chain in order followed by compound candidates in discovery
// order. An empty input yields an empty result.
func (e *Engine) Assemble(sentence string, segs []segment.Segment) []token.Token {
	if len(segs) == 0 {
		return []token.Token{}
	}

	c := token.NewChain(build(sentence, segs))
	var compounds []token.Token
	for cur := c.Head(); cur != token.None; cur = c.Next(cur) {
		for e.step(c, cur) {
		}
		compounds = append(compounds, e.compounds(c, cur, sentence)...)
	}
	return append(c.Tokens(), compounds...)
}

func build(sentence string, segs []segment.Segment) []token.Token {
	toks := make([]token.Token, len(segs))
	for i, s := range segs {
		toks[i] = token.Token{
			RawText:        s.Surface,
			RootText:       s.Lemma,
			PartOfSpeech:   segment.Classify(s.POS),
			Subtype:        s.Subtype,
			Reading:        s.Reading,
			Features:       segment.Describe(s.Features),
			SourceSentence: sentence,
		}
	}
	return toks
}

// step applies the first matching rule at cur and reports whether one fired.
func (e *Engine) step(c *token.Chain, cur int) bool {
	next := c.Next(cur)
	if next == token.None {
		return false
	}
	owner, victim := c.Token(cur), c.Token(next)
	st := c.State(cur)
	for _, r := range e.rules {
		if r.match(st, owner, victim) {
			return c.Absorb(cur, next)
		}
	}
	return false
}

// compounds scans the noun run starting at cur. The scanned nouns are left
// untouched.
func (e *Engine) compounds(c *token.Chain, cur int, sentence string) []token.Token {
	if e.checker == nil || c.Token(cur).PartOfSpeech != token.Noun {
		return nil
	}
	next := c.Next(cur)
	if next == token.None || c.Token(next).PartOfSpeech != token.Noun {
		return nil
	}

	var out []token.Token
	text := c.Token(cur).RawText
	for n := next; n != token.None && c.Token(n).PartOfSpeech == token.Noun; n = c.Next(n) {
		text += c.Token(n).RawText
		if e.checker.HasEntry(text) {
			out = append(out, token.Token{
				RawText:        text,
				RootText:       text,
				PartOfSpeech:   token.Noun,
				SourceSentence: sentence,
				Compound:       true,
			})
		}
	}
	return out
}
