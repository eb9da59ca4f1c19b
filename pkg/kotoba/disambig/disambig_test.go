package disambig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
)

func entry(id int64, spellings []string, readings ...string) lexicon.Entry {
	e := lexicon.Entry{ID: id}
	for _, s := range spellings {
		e.Spellings = append(e.Spellings, lexicon.Spelling{Text: s})
	}
	for _, r := range readings {
		e.Readings = append(e.Readings, lexicon.Reading{Text: r})
	}
	return e
}

func newLexicon(entries ...lexicon.Entry) *lexicon.Lexicon {
	lex := lexicon.New()
	for _, e := range entries {
		lex.Add(e)
	}
	return lex
}

// countingLookup counts lookups to observe memoization.
type countingLookup struct {
	lexicon.Lookup
	calls int
}

func (c *countingLookup) LookupBySpelling(text string) []*lexicon.Entry {
	c.calls++
	return c.Lookup.LookupBySpelling(text)
}

func TestSelectEntryNoCandidates(t *testing.T) {
	d := New(newLexicon())
	assert.Nil(t, d.SelectEntry("無"))
	assert.Nil(t, d.SelectSpelling("無", nil))
	assert.Nil(t, d.SelectReading("無", nil))
	assert.False(t, d.HasEntry("無"))
}

func TestSelectEntrySoleCandidate(t *testing.T) {
	d := New(newLexicon(entry(1, []string{"猫"}, "ねこ")))

	e := d.SelectEntry("ねこ")
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID)
}

func TestSelectEntryPrimarySpellingWins(t *testing.T) {
	d := New(newLexicon(
		entry(1, []string{"生", "上"}, "うえ"),
		entry(2, []string{"上", "生"}, "かみ"),
		entry(3, []string{"神", "上"}, "かみ"),
	))

	e := d.SelectEntry("上")
	require.NotNil(t, e)
	assert.Equal(t, int64(2), e.ID)
}

func TestSelectEntryReadingMatch(t *testing.T) {
	d := New(newLexicon(
		entry(1, []string{"日", "ひ"}),
		entry(2, []string{"火"}, "ひ"),
	))

	e := d.SelectEntry("ひ")
	require.NotNil(t, e)
	assert.Equal(t, int64(2), e.ID, "entry 1 lists ひ as a secondary spelling only")
}

func TestSelectEntryFirstCandidate(t *testing.T) {
	d := New(newLexicon(
		entry(1, []string{"嵐", "あらし"}),
		entry(2, []string{"荒らし", "あらし"}),
	))

	e := d.SelectEntry("あらし")
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID)
}

func TestCandidatesOrderAndDuplicates(t *testing.T) {
	d := New(newLexicon(
		entry(1, []string{"かな"}, "かな"),
		entry(2, nil, "かな"),
	))

	got := d.Candidates("かな")
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})

	e := d.SelectEntry("かな")
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID)
}

func TestRulesIndividually(t *testing.T) {
	a := &lexicon.Entry{ID: 1, Spellings: []lexicon.Spelling{{Text: "x"}, {Text: "y"}}}
	b := &lexicon.Entry{ID: 2, Spellings: []lexicon.Spelling{{Text: "y"}}, Readings: []lexicon.Reading{{Text: "z"}}}
	cs := []*lexicon.Entry{a, b}

	assert.Nil(t, soleCandidate("y", cs))
	assert.Equal(t, a, soleCandidate("y", cs[:1]))
	assert.Equal(t, b, primarySpelling("y", cs))
	assert.Nil(t, primarySpelling("q", cs))
	assert.Equal(t, b, readingMatch("z", cs))
	assert.Nil(t, readingMatch("y", cs))
	assert.Equal(t, a, firstCandidate("q", cs))
	assert.Nil(t, firstCandidate("q", nil))

	var names []string
	for _, r := range Rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"sole-candidate", "primary-spelling", "reading-match", "first-candidate"}, names)
}

func TestSelectSpellingAndReading(t *testing.T) {
	d := New(newLexicon(
		lexicon.Entry{
			ID:        1,
			Spellings: []lexicon.Spelling{{Text: "電車", Priorities: []string{"ichi1"}}},
			Readings:  []lexicon.Reading{{Text: "でんしゃ", Priorities: []string{"news1"}}},
		},
	))

	s := d.SelectSpelling("電車", nil)
	require.NotNil(t, s)
	assert.True(t, s.HasPriority("ichi1"))

	r := d.SelectReading("でんしゃ", nil)
	require.NotNil(t, r)
	assert.True(t, r.HasPriority("news1"))

	assert.Nil(t, d.SelectSpelling("でんしゃ", nil), "a reading is not a spelling")

	other := &lexicon.Entry{Spellings: []lexicon.Spelling{{Text: "汽車"}}}
	assert.Nil(t, d.SelectSpelling("電車", other), "an explicit entry is not re-resolved")
}

func TestHasEntryIgnoresReadings(t *testing.T) {
	d := New(newLexicon(entry(1, []string{"電車"}, "でんしゃ")))
	assert.True(t, d.HasEntry("電車"))
	assert.False(t, d.HasEntry("でんしゃ"))
}

func TestWithMemo(t *testing.T) {
	lookup := &countingLookup{Lookup: newLexicon(entry(1, []string{"猫"}, "ねこ"))}
	d := New(lookup, WithMemo(8))

	first := d.SelectEntry("猫")
	second := d.SelectEntry("猫")
	assert.Same(t, first, second)
	assert.Equal(t, 1, lookup.calls)

	assert.Nil(t, d.SelectEntry("犬"))
	assert.Nil(t, d.SelectEntry("犬"))
	assert.Equal(t, 2, lookup.calls, "misses are memoized too")
}

func TestWithMemoDisabled(t *testing.T) {
	lookup := &countingLookup{Lookup: newLexicon(entry(1, []string{"猫"}))}
	d := New(lookup, WithMemo(0))

	d.SelectEntry("猫")
	d.SelectEntry("猫")
	assert.Equal(t, 2, lookup.calls)
}

func TestWithRules(t *testing.T) {
	d := New(newLexicon(
		entry(1, []string{"嵐", "あらし"}),
		entry(2, []string{"荒らし", "あらし"}),
	), WithRules(Rule{Name: "last", Pick: func(_ string, cs []*lexicon.Entry) *lexicon.Entry {
		return cs[len(cs)-1]
	}}))

	assert.Equal(t, int64(2), d.SelectEntry("あらし").ID)
}

func TestSelectReturnsCopies(t *testing.T) {
	d := New(newLexicon(
		lexicon.Entry{
			ID:        1,
			Spellings: []lexicon.Spelling{{Text: "電車", Priorities: []string{"ichi1"}}},
			Readings:  []lexicon.Reading{{Text: "でんしゃ", Priorities: []string{"news1"}}},
		},
	))

	s := d.SelectSpelling("電車", nil)
	require.NotNil(t, s)
	s.Text = "汽車"
	s.Priorities[0] = "spec1"

	r := d.SelectReading("でんしゃ", nil)
	require.NotNil(t, r)
	r.Priorities[0] = "spec1"

	again := d.SelectSpelling("電車", nil)
	require.NotNil(t, again)
	assert.Equal(t, []string{"ichi1"}, again.Priorities)
	assert.True(t, d.SelectReading("でんしゃ", nil).HasPriority("news1"))
	assert.Nil(t, d.SelectSpelling("汽車", nil))
}
