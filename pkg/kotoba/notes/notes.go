// Package notes turns tokens into flashcard notes.
package notes

import (
	"crypto/rand"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// HighlightTags are the priority tags copied onto a note.
var HighlightTags = []string{"ichi1", "ichi2", "news1", "news2", "spec1", "spec2"}

// Resolver picks entries, spellings and readings for a text.
type Resolver interface {
	SelectEntry(text string) *lexicon.Entry
	SelectSpelling(text string, entry *lexicon.Entry) *lexicon.Spelling
	SelectReading(text string, entry *lexicon.Entry) *lexicon.Reading
}

// LevelTable returns the proficiency level of a word.
type LevelTable interface {
	GetLevel(word string) (int, bool)
}

// Note is one vocabulary flashcard.
type Note struct {
	ID           string   `json:"id"`
	Japanese     string   `json:"japanese"`
	Reading      string   `json:"reading"`
	PartOfSpeech string   `json:"part_of_speech"`
	English      string   `json:"english"`
	Sentence     string   `json:"sentence"`
	Extra        string   `json:"extra"`
	Tags         []string `json:"tags,omitempty"`
	Count        int      `json:"count,omitempty"`
}

// Builder constructs notes.
type Builder struct {
	resolver Resolver
	levels   LevelTable

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a note builder. levels may be nil.
func New(resolver Resolver, levels LevelTable) *Builder {
	return &Builder{
		resolver: resolver,
		levels:   levels,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

// Build creates a note for tok's root. It returns ErrNoDefinition when the
// dictionary has no entry for the root.
func (b *Builder) Build(tok token.Token) (Note, error) {
	entry := b.resolver.SelectEntry(tok.RootText)
	if entry == nil {
		return Note{}, fmt.Errorf("%q: %w", tok.RootText, internalerr.ErrNoDefinition)
	}

	text, priorities := b.headword(tok.RootText, entry)
	return Note{
		ID:           b.newID(),
		Japanese:     text,
		Reading:      Readings(entry),
		PartOfSpeech: PartsOfSpeech(entry),
		English:      English(entry),
		Sentence:     tok.SourceSentence,
		Extra:        strings.Join(b.extra(text, priorities, "JLPT N"), ", "),
	}, nil
}

// Tags returns the JLPT and priority tags an enriched note for text should
// carry, e.g. "JLPT_N4" and "ichi1".
func (b *Builder) Tags(text string, entry *lexicon.Entry) []string {
	if entry == nil {
		return nil
	}
	head, priorities := b.headword(text, entry)
	return b.extra(head, priorities, "JLPT_N")
}

func (b *Builder) newID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Now(), b.entropy).String()
}

// headword picks the matching spelling, falling back to the matching
// reading.
func (b *Builder) headword(text string, entry *lexicon.Entry) (string, []string) {
	if s := b.resolver.SelectSpelling(text, entry); s != nil {
		return s.Text, s.Priorities
	}
	if r := b.resolver.SelectReading(text, entry); r != nil {
		return r.Text, r.Priorities
	}
	return text, nil
}

func (b *Builder) extra(text string, priorities []string, levelPrefix string) []string {
	var out []string
	if b.levels != nil {
		if level, ok := b.levels.GetLevel(text); ok {
			out = append(out, levelPrefix+strconv.Itoa(level))
		}
	}
	for _, p := range priorities {
		if slices.Contains(HighlightTags, p) {
			out = append(out, p)
		}
	}
	return out
}

// Readings joins every reading of entry.
func Readings(entry *lexicon.Entry) string {
	rs := make([]string, len(entry.Readings))
	for i, r := range entry.Readings {
		rs[i] = r.Text
	}
	return strings.Join(rs, ", ")
}

// SplitReadings splits a Reading field back into its readings.
func SplitReadings(field string) []string {
	var out []string
	for _, r := range strings.Split(field, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// PartsOfSpeech lists the distinct part-of-speech descriptions of the
// English senses.
func PartsOfSpeech(entry *lexicon.Entry) string {
	var out []string
	for _, s := range entry.EnglishSenses() {
		pos := strings.Join(s.PartsOfSpeech, ", ")
		if strings.TrimSpace(pos) == "" || slices.Contains(out, pos) {
			continue
		}
		out = append(out, pos)
	}
	return strings.Join(out, ", ")
}

// English renders the English senses. A single sense is written plain;
// several are numbered "1) ", "2) " one per line.
func English(entry *lexicon.Entry) string {
	senses := entry.EnglishSenses()
	if len(senses) == 1 {
		return Sense(senses[0])
	}
	lines := make([]string, len(senses))
	for i, s := range senses {
		lines[i] = strconv.Itoa(i+1) + ") " + Sense(s)
	}
	return strings.Join(lines, "\n")
}

// Sense renders glosses joined by "; ", then misc and info annotations in
// parentheses.
func Sense(s lexicon.Sense) string {
	gs := make([]string, len(s.Glosses))
	for i, g := range s.Glosses {
		gs[i] = g.Text
	}
	var b strings.Builder
	b.WriteString(strings.Join(gs, "; "))
	if len(s.Misc) > 0 {
		b.WriteString(" (" + strings.Join(s.Misc, ", ") + ")")
	}
	if len(s.Info) > 0 {
		b.WriteString(" (" + strings.Join(s.Info, ", ") + ")")
	}
	return b.String()
}
