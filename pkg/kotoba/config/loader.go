package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cognicore/kotoba/pkg/kotoba/assemble"
	"github.com/cognicore/kotoba/pkg/kotoba/disambig"
	"github.com/cognicore/kotoba/pkg/kotoba/filter"
	"github.com/cognicore/kotoba/pkg/kotoba/frequency"
	"github.com/cognicore/kotoba/pkg/kotoba/levels"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/segment"
	"github.com/cognicore/kotoba/pkg/kotoba/store"
)

// Loader loads the data files and constructs components
type Loader struct {
	JMdictPath     string
	LexiconPath    string
	LevelsPath     string
	FrequencyPath  string
	IgnoreListPath string
	NotableTags    []string
	MemoSize       int

	// Store, when set, supplies the dictionary once it has been imported
	// and contributes persisted ignored roots.
	Store store.Store
	// Segmenter overrides the kagome segmenter.
	Segmenter segment.Segmenter
	Logger    *slog.Logger
}

// Components holds all loaded components
type Components struct {
	Segmenter     segment.Segmenter
	Lexicon       *lexicon.Lexicon
	Disambiguator *disambig.Disambiguator
	Levels        *levels.Table
	Frequency     *frequency.Table
	Engine        *assemble.Engine
	Filters       *filter.Pipeline
	Ignore        *filter.IgnoreList
}

// NewLoader creates a loader from the application configuration.
func NewLoader(cfg *Config, st store.Store, logger *slog.Logger) *Loader {
	return &Loader{
		JMdictPath:     cfg.Data.JMdict,
		LexiconPath:    cfg.Data.Lexicon,
		LevelsPath:     cfg.Data.Levels,
		FrequencyPath:  cfg.Data.Frequency,
		IgnoreListPath: cfg.Data.IgnoreList,
		NotableTags:    cfg.Filter.NotableTags,
		MemoSize:       cfg.Cache.MemoSize,
		Store:          st,
		Logger:         logger,
	}
}

// Load reads all data files and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	comp := &Components{}

	lex, err := l.loadLexicon(ctx, logger)
	if err != nil {
		return nil, err
	}
	comp.Lexicon = lex

	// Load level table
	if l.LevelsPath != "" {
		comp.Levels, err = levels.LoadFile(l.LevelsPath)
		if err != nil {
			return nil, fmt.Errorf("load levels: %w", err)
		}
	} else {
		comp.Levels = levels.New()
	}

	// Load frequency table
	if l.FrequencyPath != "" {
		comp.Frequency, err = frequency.LoadFile(l.FrequencyPath)
		if err != nil {
			return nil, fmt.Errorf("load frequency: %w", err)
		}
	} else {
		comp.Frequency = frequency.New(nil)
	}

	// Load ignore list
	comp.Ignore = filter.NewIgnoreList(nil)
	if l.IgnoreListPath != "" {
		il, err := LoadIgnoreList(l.IgnoreListPath)
		if err != nil {
			return nil, fmt.Errorf("load ignore list: %w", err)
		}
		comp.Ignore = filter.NewIgnoreList(il.Terms)
	}
	if l.Store != nil {
		roots, err := l.Store.IgnoredRoots(ctx)
		if err != nil {
			return nil, fmt.Errorf("load ignored roots: %w", err)
		}
		for _, r := range roots {
			comp.Ignore.Add(r, filter.SourceStore)
		}
	}

	comp.Segmenter = l.Segmenter
	if comp.Segmenter == nil {
		k, err := segment.NewKagome()
		if err != nil {
			return nil, fmt.Errorf("segmenter: %w", err)
		}
		comp.Segmenter = k
	}

	comp.Disambiguator = disambig.New(comp.Lexicon, disambig.WithMemo(l.MemoSize))
	comp.Engine = assemble.New(comp.Disambiguator, assemble.DefaultTags)
	comp.Filters = filter.New(comp.Ignore, comp.Levels, comp.Disambiguator, l.NotableTags)

	logger.Info("components loaded",
		"entries", comp.Lexicon.Len(),
		"levels", comp.Levels.Len(),
		"frequencies", comp.Frequency.Len(),
		"ignored", comp.Ignore.Len())
	return comp, nil
}

// loadLexicon prefers an imported dictionary in the store, then the JMdict
// file. The YAML lexicon is layered on top of either.
func (l *Loader) loadLexicon(ctx context.Context, logger *slog.Logger) (*lexicon.Lexicon, error) {
	lex := lexicon.New()
	fromStore := false
	if l.Store != nil {
		n, err := l.Store.EntryCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("count entries: %w", err)
		}
		if n > 0 {
			lex, err = store.LoadLexicon(ctx, l.Store)
			if err != nil {
				return nil, fmt.Errorf("load stored lexicon: %w", err)
			}
			fromStore = true
			logger.Debug("lexicon loaded from store", "entries", n)
		}
	}
	if !fromStore && l.JMdictPath != "" {
		n, err := lex.LoadJMdictFile(l.JMdictPath)
		if err != nil {
			return nil, fmt.Errorf("load jmdict: %w", err)
		}
		logger.Debug("lexicon loaded from jmdict", "path", l.JMdictPath, "entries", n)
	}
	if l.LexiconPath != "" {
		n, err := lex.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		logger.Debug("lexicon supplement loaded", "path", l.LexiconPath, "entries", n)
	}
	return lex, nil
}
