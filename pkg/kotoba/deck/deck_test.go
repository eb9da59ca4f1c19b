package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/kotoba/internal/anki"
	"github.com/cognicore/kotoba/internal/audio"
	"github.com/cognicore/kotoba/pkg/kotoba/disambig"
	"github.com/cognicore/kotoba/pkg/kotoba/frequency"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

type fakeClient struct {
	notes     map[string][]anki.Note
	noteIDs   map[string][]int64
	cards     map[string][]anki.Card
	cardIDs   map[string][]int64
	rejectAdd map[string]bool
	failDue   map[int64]bool

	updates  map[int64]map[string]string
	audio    map[int64][]anki.Audio
	added    map[int64][]string
	removed  map[int64][]string
	due      map[int64]int
	moved    []int64
	movedTo  string
	newNotes []anki.NewNote
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		notes:     map[string][]anki.Note{},
		noteIDs:   map[string][]int64{},
		cards:     map[string][]anki.Card{},
		cardIDs:   map[string][]int64{},
		rejectAdd: map[string]bool{},
		failDue:   map[int64]bool{},
		updates:   map[int64]map[string]string{},
		audio:     map[int64][]anki.Audio{},
		added:     map[int64][]string{},
		removed:   map[int64][]string{},
		due:       map[int64]int{},
	}
}

func (f *fakeClient) NotesForQuery(_ context.Context, q string) ([]anki.Note, error) {
	return f.notes[q], nil
}

func (f *fakeClient) FindNotes(_ context.Context, q string) ([]int64, error) {
	return f.noteIDs[q], nil
}

func (f *fakeClient) AddNote(_ context.Context, n anki.NewNote) (int64, error) {
	if f.rejectAdd[n.Fields[FieldJapanese]] {
		return 0, fmt.Errorf("duplicate: %w", internalerr.ErrAnki)
	}
	f.newNotes = append(f.newNotes, n)
	return int64(len(f.newNotes)), nil
}

func (f *fakeClient) UpdateNoteFields(_ context.Context, id int64, fields map[string]string, a ...anki.Audio) error {
	if fields != nil {
		f.updates[id] = fields
	}
	f.audio[id] = append(f.audio[id], a...)
	return nil
}

func (f *fakeClient) AddTags(_ context.Context, ids []int64, tags string) error {
	for _, id := range ids {
		f.added[id] = append(f.added[id], tags)
	}
	return nil
}

func (f *fakeClient) RemoveTags(_ context.Context, ids []int64, tags string) error {
	for _, id := range ids {
		f.removed[id] = append(f.removed[id], tags)
	}
	return nil
}

func (f *fakeClient) FindCards(_ context.Context, q string) ([]int64, error) {
	return f.cardIDs[q], nil
}

func (f *fakeClient) CardsForQuery(_ context.Context, q string) ([]anki.Card, error) {
	return f.cards[q], nil
}

func (f *fakeClient) SetDue(_ context.Context, id int64, due int) error {
	if f.failDue[id] {
		return fmt.Errorf("rejected: %w", internalerr.ErrAnki)
	}
	f.due[id] = due
	return nil
}

func (f *fakeClient) ChangeDeck(_ context.Context, cards []int64, deck string) error {
	f.moved, f.movedTo = cards, deck
	return nil
}

type fakeFrequency map[string]int

func (f fakeFrequency) GetFrequency(term string) (int, bool) {
	r, ok := f[term]
	return r, ok
}

type fakeLevels map[string]int

func (f fakeLevels) GetLevel(w string) (int, bool) {
	l, ok := f[w]
	return l, ok
}

type fakeAudio struct {
	missing map[string]bool
	calls   []string
}

func (f *fakeAudio) Fetch(_ context.Context, kana, kanji string) (audio.Clip, bool, error) {
	f.calls = append(f.calls, kanji+"|"+kana)
	if f.missing[kanji] {
		return audio.Clip{}, false, nil
	}
	return audio.Clip{Filename: "Apoc" + kanji + ".mp3", Path: "/audio/Apoc" + kanji + ".mp3"}, true, nil
}

func field(v string) anki.Field { return anki.Field{Value: v} }

func testLexicon() *lexicon.Lexicon {
	lex := lexicon.New()
	lex.Add(lexicon.Entry{
		ID:        1,
		Spellings: []lexicon.Spelling{{Text: "電車", Priorities: []string{"ichi1", "news1"}}},
		Readings:  []lexicon.Reading{{Text: "でんしゃ"}},
		Senses: []lexicon.Sense{{
			PartsOfSpeech: []string{"noun (common) (futsuumeishi)"},
			Glosses:       []lexicon.Gloss{{Text: "train"}},
		}},
	})
	lex.Add(lexicon.Entry{
		ID:        2,
		Spellings: []lexicon.Spelling{{Text: "食べる"}},
		Readings:  []lexicon.Reading{{Text: "たべる"}},
		Senses: []lexicon.Sense{{
			PartsOfSpeech: []string{"Ichidan verb", "transitive verb"},
			Glosses:       []lexicon.Gloss{{Text: "to eat"}},
		}},
	})
	return lex
}

func newManager(c *fakeClient, a AudioFetcher) *Manager {
	d := disambig.New(testLexicon())
	return New(c, Deps{
		Resolver:  d,
		Frequency: fakeFrequency{"電車": 1500},
		Tagger:    notes.New(d, fakeLevels{"電車": 4}),
		Audio:     a,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "deck:Japanese::Vocab", Query("Japanese::Vocab"))
	assert.Equal(t, "deck:Vocab is:new tag:ApocPrio", Query("Vocab", "is:new", "tag:ApocPrio"))
	assert.Equal(t, `"deck:My Deck" is:new`, Query("My Deck", "is:new"))
}

func TestSearchText(t *testing.T) {
	assert.Equal(t, "お茶", SearchText("（お）茶"))
	assert.Equal(t, "する", SearchText("～する"))
	assert.Equal(t, "電車", SearchText("電車"))
}

func TestEnrich(t *testing.T) {
	c := newFakeClient()
	c.notes["deck:Mining"] = []anki.Note{
		{
			NoteID: 1,
			Tags:   []string{"Freq:Top_1k", "ichi1"},
			Fields: map[string]anki.Field{FieldJapanese: field("<b>電車</b>"), FieldPartOfSpeech: field("")},
		},
		{
			NoteID: 2,
			Tags:   []string{TagEnriched},
			Fields: map[string]anki.Field{FieldJapanese: field("電車")},
		},
		{
			NoteID: 3,
			Fields: map[string]anki.Field{FieldJapanese: field("～食べる"), FieldPartOfSpeech: field("verb")},
		},
		{
			NoteID: 4,
			Fields: map[string]anki.Field{FieldJapanese: field("謎語")},
		},
	}

	report, err := newManager(c, nil).Enrich(context.Background(), "deck:Mining", EnrichOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Matched)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, []string{"謎語"}, report.NoDefinition)

	// Note 1: wrong bucket replaced, missing level and priority tags added.
	assert.Equal(t, map[string]string{FieldPartOfSpeech: "noun (common) (futsuumeishi)", FieldFrequency: "1500"}, c.updates[1])
	assert.Equal(t, []string{"Freq:Top_1k"}, c.removed[1])
	assert.Equal(t, []string{"Freq:Top_2k JLPT_N4 news1 Enrich01"}, c.added[1])

	// Note 2 was already enriched.
	assert.NotContains(t, c.added, int64(2))

	// Note 3: existing part of speech kept, unranked.
	assert.Equal(t, map[string]string{FieldPartOfSpeech: "verb", FieldFrequency: ""}, c.updates[3])
	assert.Equal(t, []string{"Freq:Not_Found Enrich01"}, c.added[3])

	// Note 4: no fields update, but still tagged.
	assert.NotContains(t, c.updates, int64(4))
	assert.Equal(t, []string{"Freq:Not_Found Enrich01"}, c.added[4])
}

func TestEnrichOptions(t *testing.T) {
	c := newFakeClient()
	c.notes["deck:Mining"] = []anki.Note{
		{NoteID: 1, Tags: []string{TagEnriched, "redo", "Freq:Top_2k"}, Fields: map[string]anki.Field{FieldJapanese: field("電車"), FieldPartOfSpeech: field("old")}},
		{NoteID: 2, Fields: map[string]anki.Field{FieldJapanese: field("食べる")}},
	}

	report, err := newManager(c, nil).Enrich(context.Background(), "deck:Mining",
		EnrichOptions{Tag: "redo", Again: true, OverridePartOfSpeech: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, "noun (common) (futsuumeishi)", c.updates[1][FieldPartOfSpeech])
	assert.Empty(t, c.removed[1], "correct bucket tag is kept")
	assert.Equal(t, []string{"JLPT_N4 ichi1 news1 Enrich01"}, c.added[1])
	assert.NotContains(t, c.added, int64(2))
}

func TestEnrichRequiresResolver(t *testing.T) {
	_, err := New(newFakeClient(), Deps{}).Enrich(context.Background(), "deck:x", EnrichOptions{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestReconcileDropsDuplicates(t *testing.T) {
	c := newFakeClient()
	m := newManager(c, nil)
	n := anki.Note{NoteID: 9, Tags: []string{"Freq:TOP_1K", "Freq:Top_1k", "Freq:Over_50k", "other"}}

	add, err := m.reconcileFrequency(context.Background(), n, frequency.TagTop1k)
	require.NoError(t, err)
	assert.Nil(t, add)
	assert.Equal(t, []string{"Freq:Top_1k Freq:Over_50k"}, c.removed[9])
}

func card(id, note int64, freq string) anki.Card {
	c := anki.Card{CardID: id, NoteID: note, Fields: map[string]anki.Field{}}
	if freq != "" {
		c.Fields[FieldFrequency] = field(freq)
	}
	return c
}

func TestOrder(t *testing.T) {
	cards := []anki.Card{
		card(1, 10, "300"),
		card(2, 20, ""),
		card(3, 30, "x"),
		card(4, 40, "5"),
		card(5, 50, "300"),
		card(6, 60, "9000"),
	}
	ids := func(cs []anki.Card) []int64 {
		out := make([]int64, len(cs))
		for i, c := range cs {
			out[i] = c.CardID
		}
		return out
	}

	assert.Equal(t, []int64{4, 1, 5, 6, 2, 3}, ids(Order(cards, nil)))
	assert.Equal(t, []int64{6, 3, 4, 1, 5, 2}, ids(Order(cards, []int64{30, 60})))
	assert.Equal(t, int64(1), cards[0].CardID, "input is not reordered")
}

func TestSort(t *testing.T) {
	c := newFakeClient()
	c.cards["deck:Vocab is:new"] = []anki.Card{card(1, 10, "300"), card(2, 20, "5"), card(3, 30, "100")}
	c.noteIDs["deck:Vocab is:new tag:ApocPrio"] = []int64{10}

	n, err := newManager(c, nil).Sort(context.Background(), "Vocab")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, map[int64]int{1: 1, 2: 2, 3: 3}, c.due)
}

func TestSortRefusesReviewedCards(t *testing.T) {
	c := newFakeClient()
	reviewed := card(2, 20, "5")
	reviewed.Reps = 1
	c.cards["deck:Vocab is:new"] = []anki.Card{card(1, 10, "300"), reviewed}

	_, err := newManager(c, nil).Sort(context.Background(), "Vocab")
	assert.True(t, errors.Is(err, internalerr.ErrUnsafeSort))
	assert.Empty(t, c.due)
}

func TestSortReportsFailures(t *testing.T) {
	c := newFakeClient()
	c.cards["deck:Vocab is:new"] = []anki.Card{card(1, 10, "1"), card(2, 20, "2")}
	c.failDue[1] = true

	n, err := newManager(c, nil).Sort(context.Background(), "Vocab")
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, map[int64]int{2: 2}, c.due)
}

func TestMove(t *testing.T) {
	c := newFakeClient()
	c.cardIDs["deck:Japanese::Mining"] = []int64{1, 2}

	n, err := newManager(c, nil).Move(context.Background(), "Japanese::Mining", "Japanese::Vocab")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 2}, c.moved)
	assert.Equal(t, "Japanese::Vocab", c.movedTo)

	n, err = newManager(newFakeClient(), nil).Move(context.Background(), "Empty", "Vocab")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSummarize(t *testing.T) {
	c := newFakeClient()
	c.noteIDs["deck:Vocab -is:new tag:Freq:Top_1k"] = []int64{1, 2}
	c.noteIDs["deck:Vocab -is:new tag:Freq:Top_5k"] = []int64{3}
	c.noteIDs["deck:Vocab is:new tag:Freq:Top_1k"] = []int64{7}
	c.noteIDs["deck:Vocab is:new tag:Freq:Not_Found"] = []int64{8, 9}
	c.noteIDs["deck:Vocab -is:new"] = []int64{1, 2, 3, 4}

	s, err := newManager(c, nil).Summarize(context.Background(), "Vocab")
	require.NoError(t, err)

	require.Len(t, s.Buckets, len(frequency.Tags))
	assert.Equal(t, BucketCount{Tag: frequency.TagTop1k, Learned: 2, LearnedTotal: 2, New: 1, NewTotal: 1}, s.Buckets[0])
	assert.Equal(t, BucketCount{Tag: frequency.TagTop5k, Learned: 1, LearnedTotal: 3, New: 0, NewTotal: 1}, s.Buckets[3])
	assert.Equal(t, 3, s.Buckets[len(s.Buckets)-1].NewTotal)
	assert.Equal(t, 4, s.Learned)
	assert.Equal(t, 3, s.New)
	assert.Equal(t, 1, s.Untagged)
}

func TestAddAudio(t *testing.T) {
	c := newFakeClient()
	c.notes["deck:Vocab"] = []anki.Note{
		{NoteID: 1, Fields: map[string]anki.Field{FieldJapanese: field("<div>電車</div>"), FieldReading: field("でんしゃ、でんしや"), FieldAudio: field("")}},
		{NoteID: 2, Fields: map[string]anki.Field{FieldJapanese: field("猫"), FieldReading: field("ねこ"), FieldAudio: field("[sound:x.mp3]")}},
		{NoteID: 3, Tags: []string{TagNoAudio}, Fields: map[string]anki.Field{FieldJapanese: field("犬"), FieldReading: field("いぬ")}},
		{NoteID: 4, Fields: map[string]anki.Field{FieldJapanese: field("ABC"), FieldReading: field("abc")}},
		{NoteID: 5, Fields: map[string]anki.Field{FieldJapanese: field("謎"), FieldReading: field("なぞ")}},
	}
	fetch := &fakeAudio{missing: map[string]bool{"謎": true}}

	report, err := newManager(c, fetch).AddAudio(context.Background(), "deck:Vocab")
	require.NoError(t, err)

	assert.Equal(t, AudioReport{Candidates: 3, Added: 1, NoAudio: 1, BadReading: 1}, report)
	assert.Equal(t, []string{"電車|でんしゃ", "謎|なぞ"}, fetch.calls)
	assert.Equal(t, []anki.Audio{{Filename: "Apoc電車.mp3", Path: "/audio/Apoc電車.mp3", Fields: []string{FieldAudio}}}, c.audio[1])
	assert.Equal(t, []string{TagBadReading}, c.added[4])
	assert.Equal(t, []string{TagNoAudio}, c.added[5])
}

func TestKnown(t *testing.T) {
	c := newFakeClient()
	c.notes["deck:Vocab"] = []anki.Note{
		{NoteID: 1, Fields: map[string]anki.Field{FieldJapanese: field("<b>上手</b>"), FieldReading: field("じょうず, じょうて")}},
		{NoteID: 2, Fields: map[string]anki.Field{FieldJapanese: field("")}},
	}

	known, err := newManager(c, nil).Known(context.Background(), "Vocab")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"上手": true, "じょうず": true, "じょうて": true}, known)
}

func TestAddNotes(t *testing.T) {
	c := newFakeClient()
	c.rejectAdd["猫"] = true
	ns := []notes.Note{
		{Japanese: "電車", Reading: "でんしゃ", English: "1) train\n2) tram", Tags: []string{"JLPT_N4"}},
		{Japanese: "猫", Reading: "ねこ", English: "cat"},
	}

	n, err := newManager(c, nil).AddNotes(context.Background(), "Mining", "Vocab", ns)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, c.newNotes, 1)
	assert.Equal(t, "Mining", c.newNotes[0].Deck)
	assert.Equal(t, "Vocab", c.newNotes[0].Model)
	assert.Equal(t, "1) train<br>2) tram", c.newNotes[0].Fields[FieldEnglish])
	assert.Equal(t, []string{"JLPT_N4"}, c.newNotes[0].Tags)
}
