package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]lexicon.Entry
	notes   map[string]notes.Note
	ignored map[string]bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:  1,
		entries: make(map[int64]lexicon.Entry),
		notes:   make(map[string]notes.Note),
		ignored: make(map[string]bool),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ImportEntries upserts entries by ID, assigning IDs to entries without one.
func (s *Store) ImportEntries(ctx context.Context, entries []lexicon.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.ID == 0 {
			for s.entries[s.nextID].ID != 0 {
				s.nextID++
			}
			e.ID = s.nextID
		}
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
		s.entries[e.ID] = copyEntry(e)
	}
	return len(entries), nil
}

// Entries returns every entry ordered by ID.
func (s *Store) Entries(ctx context.Context) ([]lexicon.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]lexicon.Entry, len(ids))
	for i, id := range ids {
		out[i] = copyEntry(s.entries[id])
	}
	return out, nil
}

// EntryCount returns the number of entries.
func (s *Store) EntryCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// UpsertNote stores a note keyed by its Japanese text, keeping the ID of an
// existing note.
func (s *Store) UpsertNote(ctx context.Context, n notes.Note) error {
	if strings.TrimSpace(n.Japanese) == "" || n.ID == "" {
		return fmt.Errorf("note needs an id and japanese text: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.notes[n.Japanese]; ok {
		n.ID = old.ID
	}
	n.Tags = slices.Clone(n.Tags)
	s.notes[n.Japanese] = n
	return nil
}

// GetNote returns a note by Japanese text.
func (s *Store) GetNote(ctx context.Context, japanese string) (notes.Note, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[japanese]
	if !ok {
		return notes.Note{}, false, nil
	}
	n.Tags = slices.Clone(n.Tags)
	return n, true, nil
}

// ListNotes returns notes by descending count, then Japanese text.
func (s *Store) ListNotes(ctx context.Context, limit int) ([]notes.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notes.Note, 0, len(s.notes))
	for _, n := range s.notes {
		n.Tags = slices.Clone(n.Tags)
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Japanese < out[j].Japanese
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, japanese string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[japanese]; !ok {
		return fmt.Errorf("note %q: %w", japanese, internalerr.ErrNotFound)
	}
	delete(s.notes, japanese)
	return nil
}

// IgnoreRoot records root as ignored.
func (s *Store) IgnoreRoot(ctx context.Context, root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("empty root: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignored[root] = true
	return nil
}

// UnignoreRoot forgets an ignored root.
func (s *Store) UnignoreRoot(ctx context.Context, root string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ignored, root)
	return nil
}

// IgnoredRoots returns every ignored root, sorted.
func (s *Store) IgnoredRoots(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ignored))
	for r := range s.ignored {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

func copyEntry(e lexicon.Entry) lexicon.Entry {
	e.Spellings = slices.Clone(e.Spellings)
	e.Readings = slices.Clone(e.Readings)
	e.Senses = slices.Clone(e.Senses)
	return e
}
