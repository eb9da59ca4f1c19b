// Package deck runs maintenance workflows against a flashcard deck:
// enriching notes with dictionary data and frequency tags, ordering new
// cards, moving cards between decks, summarizing progress and attaching
// pronunciation audio.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/kotoba/internal/anki"
	"github.com/cognicore/kotoba/internal/audio"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

// Note field names of the vocabulary model.
const (
	FieldJapanese     = "Japanese"
	FieldReading      = "Reading"
	FieldEnglish      = "English"
	FieldPartOfSpeech = "Part of Speech"
	FieldExtra        = "Extra"
	FieldSentence     = "Sentence"
	FieldAudio        = "Audio"
	FieldFrequency    = "Frequency"
)

// Workflow tags.
const (
	TagEnriched   = "Enrich01"
	TagPriority   = "ApocPrio"
	TagNoAudio    = "NoAudio"
	TagBadReading = "BadReading"
)

// Client is the subset of the AnkiConnect API the workflows use.
type Client interface {
	NotesForQuery(ctx context.Context, query string) ([]anki.Note, error)
	FindNotes(ctx context.Context, query string) ([]int64, error)
	AddNote(ctx context.Context, n anki.NewNote) (int64, error)
	UpdateNoteFields(ctx context.Context, id int64, fields map[string]string, audio ...anki.Audio) error
	AddTags(ctx context.Context, ids []int64, tags string) error
	RemoveTags(ctx context.Context, ids []int64, tags string) error
	FindCards(ctx context.Context, query string) ([]int64, error)
	CardsForQuery(ctx context.Context, query string) ([]anki.Card, error)
	SetDue(ctx context.Context, cardID int64, due int) error
	ChangeDeck(ctx context.Context, cards []int64, deck string) error
}

// FrequencyTable ranks terms by corpus frequency.
type FrequencyTable interface {
	GetFrequency(term string) (int, bool)
}

// Tagger produces the level and priority tags for an entry.
type Tagger interface {
	Tags(text string, entry *lexicon.Entry) []string
}

// AudioFetcher downloads a pronunciation clip.
type AudioFetcher interface {
	Fetch(ctx context.Context, kana, kanji string) (audio.Clip, bool, error)
}

// Deps wires the collaborators. Only the ones a workflow needs must be set.
type Deps struct {
	Resolver  notes.Resolver
	Frequency FrequencyTable
	Tagger    Tagger
	Audio     AudioFetcher
	Logger    *slog.Logger
}

// Manager runs deck workflows.
type Manager struct {
	client Client
	deps   Deps
	logger *slog.Logger
}

// New creates a Manager.
func New(client Client, deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{client: client, deps: deps, logger: logger}
}

// Query builds an Anki search for deck followed by extra terms.
func Query(deck string, terms ...string) string {
	q := "deck:" + deck
	if strings.ContainsAny(deck, " \t") {
		q = `"` + q + `"`
	}
	if len(terms) == 0 {
		return q
	}
	return q + " " + strings.Join(terms, " ")
}

// Move transfers every card of from into to and returns how many moved.
func (m *Manager) Move(ctx context.Context, from, to string) (int, error) {
	cards, err := m.client.FindCards(ctx, Query(from))
	if err != nil {
		return 0, fmt.Errorf("find cards in %s: %w", from, err)
	}
	if len(cards) == 0 {
		return 0, nil
	}
	if err := m.client.ChangeDeck(ctx, cards, to); err != nil {
		return 0, fmt.Errorf("move to %s: %w", to, err)
	}
	m.logger.Info("moved cards", "from", from, "to", to, "count", len(cards))
	return len(cards), nil
}

// Known returns the Japanese text and every reading of the notes in deck,
// for use as the learner's known vocabulary.
func (m *Manager) Known(ctx context.Context, deck string) (map[string]bool, error) {
	ns, err := m.client.NotesForQuery(ctx, Query(deck))
	if err != nil {
		return nil, fmt.Errorf("notes in %s: %w", deck, err)
	}
	known := make(map[string]bool, len(ns)*2)
	for _, n := range ns {
		if jp := Clean(n.Field(FieldJapanese)); jp != "" {
			known[jp] = true
		}
		for _, r := range splitReadings(n.Field(FieldReading)) {
			known[r] = true
		}
	}
	return known, nil
}

// AddNotes exports built notes into deck using model. Notes the service
// rejects, usually as duplicates, are logged and skipped.
func (m *Manager) AddNotes(ctx context.Context, deck, model string, ns []notes.Note) (int, error) {
	added := 0
	for _, n := range ns {
		_, err := m.client.AddNote(ctx, anki.NewNote{
			Deck:  deck,
			Model: model,
			Fields: map[string]string{
				FieldJapanese:     n.Japanese,
				FieldReading:      n.Reading,
				FieldEnglish:      strings.ReplaceAll(n.English, "\n", "<br>"),
				FieldPartOfSpeech: n.PartOfSpeech,
				FieldExtra:        n.Extra,
				FieldSentence:     n.Sentence,
			},
			Tags: n.Tags,
		})
		if errors.Is(err, internalerr.ErrAnki) {
			m.logger.Warn("note rejected", "japanese", n.Japanese, "error", err)
			continue
		}
		if err != nil {
			return added, fmt.Errorf("add %s: %w", n.Japanese, err)
		}
		added++
	}
	m.logger.Info("added notes", "deck", deck, "added", added, "total", len(ns))
	return added, nil
}

func splitReadings(s string) []string {
	parts := strings.FieldsFunc(Clean(s), func(r rune) bool {
		return r == ',' || r == '、' || r == '・'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
