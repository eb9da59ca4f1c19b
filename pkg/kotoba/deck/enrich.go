package deck

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/kotoba/internal/anki"
	"github.com/cognicore/kotoba/internal/htmltext"
	"github.com/cognicore/kotoba/pkg/kotoba/frequency"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

// EnrichOptions controls Enrich.
type EnrichOptions struct {
	// OverridePartOfSpeech replaces a non-empty Part of Speech field.
	OverridePartOfSpeech bool
	// Tag limits enrichment to notes carrying it.
	Tag string
	// Again re-enriches notes already tagged TagEnriched.
	Again bool
}

// EnrichReport summarizes an Enrich run.
type EnrichReport struct {
	Matched      int
	Updated      int
	TagsAdded    int
	NoDefinition []string
}

var searchStripper = strings.NewReplacer("(", "", ")", "", "（", "", "）", "", "～", "")

// Clean returns the plain text of an HTML note field.
func Clean(field string) string {
	return htmltext.Text(field)
}

// SearchText strips the bracket and wave-dash decoration learners add
// around optional parts of a headword.
func SearchText(japanese string) string {
	return searchStripper.Replace(japanese)
}

// Enrich updates the Part of Speech and Frequency fields of the notes
// matching query, reconciles their frequency bucket tag and adds missing
// level and priority tags. Every processed note is tagged TagEnriched.
func (m *Manager) Enrich(ctx context.Context, query string, opts EnrichOptions) (EnrichReport, error) {
	var report EnrichReport
	if m.deps.Resolver == nil || m.deps.Frequency == nil {
		return report, fmt.Errorf("enrich needs a resolver and a frequency table: %w", internalerr.ErrInvalidConfig)
	}

	all, err := m.client.NotesForQuery(ctx, query)
	if err != nil {
		return report, fmt.Errorf("notes for %q: %w", query, err)
	}
	var todo []anki.Note
	for _, n := range all {
		if opts.Tag != "" && !n.HasTag(opts.Tag) {
			continue
		}
		if !opts.Again && n.HasTag(TagEnriched) {
			continue
		}
		todo = append(todo, n)
	}
	report.Matched = len(todo)
	m.logger.Info("enriching notes", "query", query, "notes", len(all), "pending", len(todo))

	start := time.Now()
	for i, n := range todo {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		added, ok, err := m.enrichNote(ctx, n, opts, &report)
		if err != nil {
			return report, err
		}
		if ok {
			report.Updated++
			report.TagsAdded += added
		}
		m.logger.Debug("enriched note",
			"japanese", n.Field(FieldJapanese),
			"tags_added", added,
			"progress", i+1,
			"total", len(todo),
			"elapsed", time.Since(start))
	}

	if len(report.NoDefinition) > 0 {
		m.logger.Info("notes without definitions", "count", len(report.NoDefinition), "japanese", report.NoDefinition)
	}
	return report, nil
}

func (m *Manager) enrichNote(ctx context.Context, n anki.Note, opts EnrichOptions, report *EnrichReport) (int, bool, error) {
	japanese := Clean(n.Field(FieldJapanese))
	search := SearchText(japanese)
	if search != japanese {
		m.logger.Debug("searching stripped text", "search", search, "japanese", japanese)
	}

	entry := m.deps.Resolver.SelectEntry(search)
	rank, ranked := m.deps.Frequency.GetFrequency(japanese)

	if entry == nil {
		report.NoDefinition = append(report.NoDefinition, japanese)
	} else {
		pos := n.Field(FieldPartOfSpeech)
		if opts.OverridePartOfSpeech || strings.TrimSpace(pos) == "" {
			pos = notes.PartsOfSpeech(entry)
		}
		freq := ""
		if ranked {
			freq = strconv.Itoa(rank)
		}
		err := m.client.UpdateNoteFields(ctx, n.NoteID, map[string]string{
			FieldPartOfSpeech: pos,
			FieldFrequency:    freq,
		})
		if err != nil {
			m.logger.Warn("update failed", "japanese", japanese, "note", n.NoteID, "error", err)
			return 0, false, nil
		}
	}

	toAdd, err := m.reconcileFrequency(ctx, n, frequency.Tag(rank, ranked))
	if err != nil {
		return 0, false, err
	}
	if m.deps.Tagger != nil && entry != nil {
		for _, t := range m.deps.Tagger.Tags(search, entry) {
			if !n.HasTag(t) && !slices.Contains(toAdd, t) {
				toAdd = append(toAdd, t)
			}
		}
	}
	added := len(toAdd)
	toAdd = append(toAdd, TagEnriched)
	if err := m.client.AddTags(ctx, []int64{n.NoteID}, strings.Join(toAdd, " ")); err != nil {
		return 0, false, fmt.Errorf("tag %s: %w", japanese, err)
	}
	return added, true, nil
}

// reconcileFrequency removes stale frequency tags from n and returns want
// when the note does not carry it yet.
func (m *Manager) reconcileFrequency(ctx context.Context, n anki.Note, want string) ([]string, error) {
	var stale []string
	found := false
	for _, t := range n.Tags {
		if !frequency.IsTag(t) {
			continue
		}
		if !found && strings.EqualFold(t, want) {
			found = true
			continue
		}
		stale = append(stale, t)
	}
	if len(stale) > 0 {
		if err := m.client.RemoveTags(ctx, []int64{n.NoteID}, strings.Join(stale, " ")); err != nil {
			return nil, fmt.Errorf("untag %d: %w", n.NoteID, err)
		}
	}
	if found {
		return nil, nil
	}
	return []string{want}, nil
}
