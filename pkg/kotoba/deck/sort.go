package deck

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cognicore/kotoba/internal/anki"
	"github.com/cognicore/kotoba/pkg/kotoba/frequency"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/segment"
)

// missingRank orders cards whose note has no Frequency field.
const missingRank = 1000000

// Sort numbers the new cards of deck by ascending frequency rank, notes
// tagged TagPriority first. It refuses to touch a deck whose "new" cards
// show any review history. It returns the number of cards positioned.
func (m *Manager) Sort(ctx context.Context, deck string) (int, error) {
	cards, err := m.client.CardsForQuery(ctx, Query(deck, "is:new"))
	if err != nil {
		return 0, fmt.Errorf("cards in %s: %w", deck, err)
	}
	for _, c := range cards {
		if c.Reps != 0 || c.Lapses != 0 || c.Type != 0 {
			return 0, fmt.Errorf("card %d in %s has history: %w", c.CardID, deck, internalerr.ErrUnsafeSort)
		}
	}

	prio, err := m.client.FindNotes(ctx, Query(deck, "is:new", "tag:"+TagPriority))
	if err != nil {
		return 0, fmt.Errorf("priority notes in %s: %w", deck, err)
	}
	ordered := Order(cards, prio)

	m.logger.Info("sorting cards", "deck", deck, "cards", len(ordered), "priority_notes", len(prio))
	var errs []error
	for i, c := range ordered {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		due := i + 1
		if err := m.client.SetDue(ctx, c.CardID, due); err != nil {
			m.logger.Warn("sort failed", "card", c.CardID, "error", err)
			errs = append(errs, err)
			continue
		}
		m.logger.Debug("sorted card", "card", c.CardID, "due", due, "frequency", rankOf(c))
	}
	return len(ordered) - len(errs), errors.Join(errs...)
}

// Order returns cards by ascending rank with cards of priority notes moved
// to the front. Equal ranks keep their original order.
func Order(cards []anki.Card, priority []int64) []anki.Card {
	ordered := slices.Clone(cards)
	slices.SortStableFunc(ordered, func(a, b anki.Card) int {
		return cmp.Compare(rankOf(a), rankOf(b))
	})
	if len(priority) == 0 {
		return ordered
	}
	front := make([]anki.Card, 0, len(ordered))
	rest := make([]anki.Card, 0, len(ordered))
	for _, c := range ordered {
		if slices.Contains(priority, c.NoteID) {
			front = append(front, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(front, rest...)
}

// rankOf reads the Frequency field. Missing fields rank missingRank and
// unparsable ones rank last.
func rankOf(c anki.Card) int {
	v, ok := c.Field(FieldFrequency)
	if !ok {
		return missingRank
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return math.MaxInt32
	}
	return n
}

// BucketCount is one row of a Summary.
type BucketCount struct {
	Tag          string
	Learned      int
	LearnedTotal int
	New          int
	NewTotal     int
}

// Summary counts learned and new notes per frequency bucket.
type Summary struct {
	Buckets []BucketCount
	Learned int
	New     int
	// Untagged counts learned notes without any frequency bucket tag.
	Untagged int
}

// Summarize counts the notes of deck per frequency bucket.
func (m *Manager) Summarize(ctx context.Context, deck string) (Summary, error) {
	var s Summary
	tagged := make(map[int64]bool)
	learnedTotal, newTotal := 0, 0
	for _, tag := range frequency.Tags {
		learned, err := m.client.FindNotes(ctx, Query(deck, "-is:new", "tag:"+tag))
		if err != nil {
			return s, fmt.Errorf("count %s: %w", tag, err)
		}
		fresh, err := m.client.FindNotes(ctx, Query(deck, "is:new", "tag:"+tag))
		if err != nil {
			return s, fmt.Errorf("count %s: %w", tag, err)
		}
		for _, id := range learned {
			tagged[id] = true
		}
		learnedTotal += len(learned)
		newTotal += len(fresh)
		s.Buckets = append(s.Buckets, BucketCount{
			Tag:          tag,
			Learned:      len(learned),
			LearnedTotal: learnedTotal,
			New:          len(fresh),
			NewTotal:     newTotal,
		})
	}

	all, err := m.client.FindNotes(ctx, Query(deck, "-is:new"))
	if err != nil {
		return s, fmt.Errorf("learned notes in %s: %w", deck, err)
	}
	for _, id := range all {
		if !tagged[id] {
			s.Untagged++
		}
	}
	s.Learned = len(all)
	s.New = newTotal
	return s, nil
}

// AudioReport summarizes an AddAudio run.
type AudioReport struct {
	Candidates int
	Added      int
	NoAudio    int
	BadReading int
}

// AddAudio downloads pronunciations for the notes matching query that have
// an empty Audio field. Notes already tagged TagNoAudio or TagBadReading
// are skipped; notes without a usable kana reading or without a recording
// get the matching tag.
func (m *Manager) AddAudio(ctx context.Context, query string) (AudioReport, error) {
	var report AudioReport
	if m.deps.Audio == nil {
		return report, fmt.Errorf("audio fetcher not configured: %w", internalerr.ErrInvalidConfig)
	}
	all, err := m.client.NotesForQuery(ctx, query)
	if err != nil {
		return report, fmt.Errorf("notes for %q: %w", query, err)
	}

	for _, n := range all {
		if strings.TrimSpace(n.Field(FieldAudio)) != "" || n.HasTag(TagNoAudio) || n.HasTag(TagBadReading) {
			continue
		}
		report.Candidates++
		if err := ctx.Err(); err != nil {
			return report, err
		}

		kanji := Clean(n.Field(FieldJapanese))
		kana := firstReading(n.Field(FieldReading))
		if !segment.IsAllJapanese(kana) {
			if err := m.client.AddTags(ctx, []int64{n.NoteID}, TagBadReading); err != nil {
				return report, err
			}
			report.BadReading++
			m.logger.Debug("bad reading", "japanese", kanji, "reading", kana)
			continue
		}

		clip, ok, err := m.deps.Audio.Fetch(ctx, kana, kanji)
		if err != nil {
			m.logger.Warn("audio fetch failed", "japanese", kanji, "error", err)
			continue
		}
		if !ok {
			if err := m.client.AddTags(ctx, []int64{n.NoteID}, TagNoAudio); err != nil {
				return report, err
			}
			report.NoAudio++
			continue
		}
		err = m.client.UpdateNoteFields(ctx, n.NoteID, nil, anki.Audio{
			Filename: clip.Filename,
			Path:     clip.Path,
			Fields:   []string{FieldAudio},
		})
		if err != nil {
			return report, fmt.Errorf("attach audio to %s: %w", kanji, err)
		}
		report.Added++
		m.logger.Debug("added audio", "japanese", kanji, "file", clip.Filename)
	}
	m.logger.Info("audio pass done", "query", query,
		"candidates", report.Candidates, "added", report.Added, "no_audio", report.NoAudio, "bad_reading", report.BadReading)
	return report, nil
}

func firstReading(field string) string {
	rs := splitReadings(field)
	if len(rs) == 0 {
		return ""
	}
	return rs[0]
}
