// Package kotoba turns Japanese text into vocabulary notes: segments are
// assembled into tokens, filtered and grouped by root.
package kotoba

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/analytics"
	"github.com/cognicore/kotoba/pkg/kotoba/assemble"
	"github.com/cognicore/kotoba/pkg/kotoba/filter"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
	"github.com/cognicore/kotoba/pkg/kotoba/segment"
	"github.com/cognicore/kotoba/pkg/kotoba/store"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// DefaultMinCount is the number of occurrences a root needs to be mined
// when MineOptions leaves MinCount unset.
const DefaultMinCount = 5

// Kotoba is the text processing facade
type Kotoba struct {
	segmenter segment.Segmenter
	engine    *assemble.Engine
	filters   *filter.Pipeline
	notes     *notes.Builder
	store     store.Store
	logger    *slog.Logger
}

// Options configures a Kotoba instance. Filters, Notes and Store are
// optional.
type Options struct {
	Segmenter segment.Segmenter
	Engine    *assemble.Engine
	Filters   *filter.Pipeline
	Notes     *notes.Builder
	Store     store.Store
	Logger    *slog.Logger
}

// New creates a Kotoba instance with the given dependencies
func New(opts Options) *Kotoba {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Kotoba{
		segmenter: opts.Segmenter,
		engine:    opts.Engine,
		filters:   opts.Filters,
		notes:     opts.Notes,
		store:     opts.Store,
		logger:    logger,
	}
}

// Close releases the store, if any.
func (k *Kotoba) Close() error {
	if k.store == nil {
		return nil
	}
	return k.store.Close()
}

// Tokenize segments sentence and assembles its tokens without filtering.
func (k *Kotoba) Tokenize(sentence string) ([]token.Token, error) {
	segs, err := k.segmenter.Segment(sentence)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	return k.engine.Assemble(sentence, segs), nil
}

// TokenizeFiltered tokenizes sentence and applies the enabled filter
// stages.
func (k *Kotoba) TokenizeFiltered(sentence string, opts filter.Options) ([]token.Token, error) {
	toks, err := k.Tokenize(sentence)
	if err != nil {
		return nil, err
	}
	if k.filters == nil {
		return toks, nil
	}
	return k.filters.Apply(toks, opts), nil
}

// ExampleSource picks an example sentence for a root.
type ExampleSource interface {
	Pick(root string, known map[string]bool) (string, bool)
}

// MineOptions controls Mine.
type MineOptions struct {
	Filter   filter.Options
	MinCount int64
	// Limit caps the number of notes built. Zero means no limit.
	Limit int
	// Known holds roots and headwords the learner already has, for example
	// the notes of a flashcard deck. Stored notes are always known.
	Known map[string]bool
	// Examples, when set, replaces the first source sentence with the best
	// known-word example.
	Examples ExampleSource
	// Save upserts the built notes into the store.
	Save bool
}

// MineResult reports what Mine found.
type MineResult struct {
	Notes        []notes.Note
	NoDefinition []analytics.RootStat
	Known        int
	Roots        int
	Sentences    int64
}

// Mine tokenizes lines, groups the surviving tokens by root and builds a
// note for every root seen at least MinCount times, most frequent first.
// Roots already known are skipped and roots without a dictionary entry
// are reported in NoDefinition.
func (k *Kotoba) Mine(ctx context.Context, lines []string, opts MineOptions) (MineResult, error) {
	var res MineResult
	if k.notes == nil {
		return res, fmt.Errorf("mine needs a note builder: %w", internalerr.ErrInvalidConfig)
	}
	if opts.MinCount <= 0 {
		opts.MinCount = DefaultMinCount
	}

	known, err := k.known(ctx, opts.Known)
	if err != nil {
		return res, err
	}

	a := analytics.NewAnalyzer()
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		toks, err := k.TokenizeFiltered(line, opts.Filter)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", i+1, err)
		}
		a.Process(toks)
	}
	res.Sentences = a.TotalSentences()

	groups := a.Ranked(opts.MinCount)
	res.Roots = len(groups)
	k.logger.Info("mined roots", "lines", len(lines), "distinct", a.Len(), "kept", len(groups), "min_count", opts.MinCount)

	if err := k.buildNotes(ctx, groups, opts, known, &res); err != nil {
		return res, err
	}
	k.logger.Info("mining done", "notes", len(res.Notes), "known", res.Known, "no_definition", len(res.NoDefinition))
	return res, nil
}

// BuildFromList builds a note for every word of a vocabulary list, in list
// order. Each entry is tokenized without filters and single kana roots are
// dropped; there is no count threshold, so opts.Filter and opts.MinCount
// are ignored. Known words are skipped and words without a dictionary
// entry are reported in NoDefinition.
func (k *Kotoba) BuildFromList(ctx context.Context, words []string, opts MineOptions) (MineResult, error) {
	var res MineResult
	if k.notes == nil {
		return res, fmt.Errorf("build needs a note builder: %w", internalerr.ErrInvalidConfig)
	}
	known, err := k.known(ctx, opts.Known)
	if err != nil {
		return res, err
	}

	var items []analytics.RootStat
	seen := make(map[string]bool)
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if strings.TrimSpace(w) == "" {
			continue
		}
		toks, err := k.Tokenize(w)
		if err != nil {
			return res, fmt.Errorf("word %d: %w", i+1, err)
		}
		res.Sentences++
		for _, t := range toks {
			if t.RootText == "" || segment.IsSingleKana(t.RootText) || seen[t.RootText] {
				continue
			}
			seen[t.RootText] = true
			items = append(items, analytics.RootStat{Root: t.RootText, Count: 1, Sentences: 1, First: t})
		}
	}
	res.Roots = len(items)
	k.logger.Info("read vocabulary list", "words", len(words), "roots", len(items))

	if err := k.buildNotes(ctx, items, opts, known, &res); err != nil {
		return res, err
	}
	k.logger.Info("list done", "notes", len(res.Notes), "known", res.Known, "no_definition", len(res.NoDefinition))
	return res, nil
}

// buildNotes turns groups into notes in order. known grows with every
// built note so later roots of the same entry are skipped and example
// picks treat the new words as known.
func (k *Kotoba) buildNotes(ctx context.Context, groups []analytics.RootStat, opts MineOptions, known map[string]bool, res *MineResult) error {
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.Limit > 0 && len(res.Notes) >= opts.Limit {
			break
		}
		if known[g.Root] {
			res.Known++
			continue
		}
		n, err := k.notes.Build(g.First)
		if errors.Is(err, internalerr.ErrNoDefinition) {
			res.NoDefinition = append(res.NoDefinition, g)
			k.logger.Debug("no definition", "root", g.Root, "count", g.Count)
			continue
		}
		if err != nil {
			return fmt.Errorf("build %s: %w", g.Root, err)
		}
		if known[n.Japanese] {
			res.Known++
			continue
		}
		n.Count = int(g.Count)
		if opts.Examples != nil {
			if s, ok := opts.Examples.Pick(g.Root, known); ok {
				n.Sentence = s
			}
		}
		if opts.Save && k.store != nil {
			if err := k.store.UpsertNote(ctx, n); err != nil {
				return fmt.Errorf("save %s: %w", n.Japanese, err)
			}
		}
		res.Notes = append(res.Notes, n)
		known[n.Japanese] = true
		for _, r := range notes.SplitReadings(n.Reading) {
			known[r] = true
		}
		k.logger.Debug("built note", "root", g.Root, "japanese", n.Japanese, "count", g.Count, "pos", g.First.PartOfSpeech)
	}
	return nil
}

func (k *Kotoba) known(ctx context.Context, extra map[string]bool) (map[string]bool, error) {
	known := make(map[string]bool, len(extra))
	for w, ok := range extra {
		if ok {
			known[w] = true
		}
	}
	if k.store == nil {
		return known, nil
	}
	stored, err := store.Known(ctx, k.store)
	if err != nil {
		return nil, fmt.Errorf("known notes: %w", err)
	}
	for w := range stored {
		known[w] = true
	}
	return known, nil
}
