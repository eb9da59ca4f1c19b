package store

import (
	"context"

	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

// Store persists the imported dictionary, mined notes and ignored roots.
type Store interface {
	Close() error

	// Dictionary
	ImportEntries(ctx context.Context, entries []lexicon.Entry) (int, error)
	Entries(ctx context.Context) ([]lexicon.Entry, error)
	EntryCount(ctx context.Context) (int, error)

	// Notes, keyed by their Japanese text
	UpsertNote(ctx context.Context, n notes.Note) error
	GetNote(ctx context.Context, japanese string) (notes.Note, bool, error)
	ListNotes(ctx context.Context, limit int) ([]notes.Note, error)
	DeleteNote(ctx context.Context, japanese string) error

	// Ignored roots
	IgnoreRoot(ctx context.Context, root string) error
	UnignoreRoot(ctx context.Context, root string) error
	IgnoredRoots(ctx context.Context) ([]string, error)
}

// LoadLexicon builds an in-memory lexicon from every stored entry.
func LoadLexicon(ctx context.Context, s Store) (*lexicon.Lexicon, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	lex := lexicon.New()
	for _, e := range entries {
		lex.Add(e)
	}
	return lex, nil
}

// Known returns the Japanese text and readings of every stored note.
func Known(ctx context.Context, s Store) (map[string]bool, error) {
	ns, err := s.ListNotes(ctx, 0)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(ns)*2)
	for _, n := range ns {
		known[n.Japanese] = true
		for _, r := range notes.SplitReadings(n.Reading) {
			known[r] = true
		}
	}
	return known, nil
}
