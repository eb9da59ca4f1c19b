// Package analytics aggregates root statistics over a tokenized corpus.
package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// RootStat holds the counts collected for one root.
type RootStat struct {
	Root string
	// Count is the number of occurrences across the corpus.
	Count int64
	// Sentences is the number of sentences the root appears in.
	Sentences int64
	// First is the token of the first occurrence.
	First token.Token

	order int
}

// Analyzer aggregates sentence-level root stats.
type Analyzer struct {
	totalSentences int64
	roots          map[string]*RootStat
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{roots: make(map[string]*RootStat)}
}

// Process consumes the tokens of one sentence.
func (a *Analyzer) Process(tokens []token.Token) {
	a.totalSentences++

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.RootText == "" {
			continue
		}
		st, ok := a.roots[tok.RootText]
		if !ok {
			st = &RootStat{Root: tok.RootText, First: tok, order: len(a.roots)}
			a.roots[tok.RootText] = st
		}
		st.Count++
		if _, dup := seen[tok.RootText]; !dup {
			seen[tok.RootText] = struct{}{}
			st.Sentences++
		}
	}
}

// TotalSentences returns the number of processed sentences.
func (a *Analyzer) TotalSentences() int64 { return a.totalSentences }

// Len returns the number of distinct roots.
func (a *Analyzer) Len() int { return len(a.roots) }

// Get returns the stats of root.
func (a *Analyzer) Get(root string) (RootStat, bool) {
	st, ok := a.roots[root]
	if !ok {
		return RootStat{}, false
	}
	return *st, true
}

// Ranked returns the roots seen at least minCount times, most frequent
// first. Equal counts keep first-appearance order.
func (a *Analyzer) Ranked(minCount int64) []RootStat {
	out := make([]RootStat, 0, len(a.roots))
	for _, st := range a.roots {
		if st.Count >= minCount {
			out = append(out, *st)
		}
	}
	slices.SortFunc(out, func(x, y RootStat) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.order, y.order)
	})
	return out
}

// Candidate is a root that shows up in so many sentences that it is
// probably not worth studying.
type Candidate struct {
	Root      string
	DF        int64
	DFPercent float64
	IDF       float64
}

// IgnoreCandidates returns roots whose sentence frequency is at least
// minPercent of the corpus, most widespread first. A positive limit caps
// the result.
func (a *Analyzer) IgnoreCandidates(minPercent float64, limit int) []Candidate {
	if a.totalSentences == 0 {
		return nil
	}
	var out []Candidate
	for _, st := range a.roots {
		pct := 100 * float64(st.Sentences) / float64(a.totalSentences)
		if pct < minPercent {
			continue
		}
		out = append(out, Candidate{
			Root:      st.Root,
			DF:        st.Sentences,
			DFPercent: pct,
			IDF:       math.Log(float64(a.totalSentences) / (1 + float64(st.Sentences))),
		})
	}
	slices.SortFunc(out, func(x, y Candidate) int {
		if c := cmp.Compare(y.DF, x.DF); c != 0 {
			return c
		}
		return cmp.Compare(x.Root, y.Root)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
