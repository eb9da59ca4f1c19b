package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cognicore/kotoba/internal/anki"
	"github.com/cognicore/kotoba/internal/audio"
	"github.com/cognicore/kotoba/internal/logging"
	"github.com/cognicore/kotoba/pkg/kotoba"
	"github.com/cognicore/kotoba/pkg/kotoba/config"
	"github.com/cognicore/kotoba/pkg/kotoba/deck"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
	"github.com/cognicore/kotoba/pkg/kotoba/store"
	"github.com/cognicore/kotoba/pkg/kotoba/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app lazily builds what a command needs and releases it afterwards.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	comp   *config.Components
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kotoba",
		Short: "Mine Japanese vocabulary from text and manage flashcard decks",
		Long: `kotoba tokenizes Japanese text into dictionary-form words, builds
vocabulary notes for the words worth studying, and keeps an Anki deck
enriched, sorted and voiced.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (YAML, default $KOTOBA_CONFIG or ./kotoba.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(tokenizeCmd(a))
	root.AddCommand(importDictCmd(a))
	root.AddCommand(mineCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(ignoreCmd(a))
	root.AddCommand(sentencesCmd(a))
	root.AddCommand(subs2srsCmd(a))
	root.AddCommand(enrichCmd(a))
	root.AddCommand(sortCmd(a))
	root.AddCommand(moveCmd(a))
	root.AddCommand(summaryCmd(a))
	root.AddCommand(audioCmd(a))
	root.AddCommand(refreshCmd(a))
	return root
}

func (a *app) init() error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("KOTOBA_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := sqlite.OpenSQLite(ctx, a.cfg.Data.DB)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

func (a *app) components(ctx context.Context) (*config.Components, error) {
	if a.comp != nil {
		return a.comp, nil
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	comp, err := config.NewLoader(a.cfg, st, a.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	a.comp = comp
	return comp, nil
}

func (a *app) engine(ctx context.Context) (*kotoba.Kotoba, error) {
	comp, err := a.components(ctx)
	if err != nil {
		return nil, err
	}
	return kotoba.New(kotoba.Options{
		Segmenter: comp.Segmenter,
		Engine:    comp.Engine,
		Filters:   comp.Filters,
		Notes:     notes.New(comp.Disambiguator, comp.Levels),
		Store:     a.store,
		Logger:    a.logger,
	}), nil
}

func (a *app) ankiClient() *anki.Client {
	return &anki.Client{
		URL:        a.cfg.Anki.URL,
		Version:    a.cfg.Anki.Version,
		HTTPClient: &http.Client{Timeout: a.cfg.Anki.Timeout},
	}
}

// deckManager builds a deck manager. Dictionary-backed workflows need the
// components; moving and summarizing do not.
func (a *app) deckManager(ctx context.Context, withDictionary bool) (*deck.Manager, error) {
	deps := deck.Deps{
		Audio: &audio.Fetcher{
			BaseURL:    a.cfg.Audio.BaseURL,
			Dir:        a.cfg.Audio.Dir,
			Prefix:     a.cfg.Audio.Prefix,
			HTTPClient: &http.Client{Timeout: a.cfg.Audio.Timeout},
		},
		Logger: a.logger,
	}
	if withDictionary {
		comp, err := a.components(ctx)
		if err != nil {
			return nil, err
		}
		deps.Resolver = comp.Disambiguator
		deps.Frequency = comp.Frequency
		deps.Tagger = notes.New(comp.Disambiguator, comp.Levels)
	}
	return deck.New(a.ankiClient(), deps), nil
}
