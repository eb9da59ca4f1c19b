package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJMdict = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE JMdict [
<!ENTITY n "noun (common) (futsuumeishi)">
<!ENTITY vs "noun or participle which takes the aux. verb suru">
<!ENTITY uk "word usually written using kana alone">
]>
<JMdict>
<entry>
<ent_seq>1413750</ent_seq>
<k_ele><keb>電車</keb><ke_pri>ichi1</ke_pri><ke_pri>news1</ke_pri></k_ele>
<r_ele><reb>でんしゃ</reb><re_pri>ichi1</re_pri></r_ele>
<sense><pos>&n;</pos><gloss>train</gloss><gloss>electric train</gloss></sense>
<sense><gloss xml:lang="ger">Zug</gloss></sense>
</entry>
<entry>
<ent_seq>1407230</ent_seq>
<k_ele><keb>勉強</keb><ke_pri>ichi1</ke_pri></k_ele>
<r_ele><reb>べんきょう</reb></r_ele>
<sense><pos>&n;</pos><pos>&vs;</pos><misc>&uk;</misc><s_inf>rare</s_inf><gloss>study</gloss></sense>
</entry>
</JMdict>`

func TestLoadJMdict(t *testing.T) {
	lex := New()
	n, err := lex.LoadJMdict(strings.NewReader(sampleJMdict))
	if err != nil {
		t.Fatalf("LoadJMdict: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d entries, want 2", n)
	}

	entries := lex.LookupBySpelling("電車")
	if len(entries) != 1 {
		t.Fatalf("LookupBySpelling(電車) = %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID != 1413750 {
		t.Errorf("ID = %d, want 1413750", e.ID)
	}
	if !e.Spellings[0].HasPriority("news1") {
		t.Errorf("spelling priorities = %v, want news1", e.Spellings[0].Priorities)
	}
	if got := e.Senses[0].PartsOfSpeech; len(got) != 1 || got[0] != "noun (common) (futsuumeishi)" {
		t.Errorf("pos entity not expanded: %v", got)
	}
	if got := e.Senses[1].Glosses[0].Lang; got != "ger" {
		t.Errorf("gloss lang = %q, want ger", got)
	}
	if got := len(e.EnglishSenses()); got != 1 {
		t.Errorf("EnglishSenses() = %d, want 1", got)
	}

	study := lex.LookupByReading("べんきょう")
	if len(study) != 1 {
		t.Fatalf("LookupByReading(べんきょう) = %d entries, want 1", len(study))
	}
	s := study[0].Senses[0]
	if len(s.PartsOfSpeech) != 2 || s.Misc[0] != "word usually written using kana alone" || s.Info[0] != "rare" {
		t.Errorf("unexpected sense %+v", s)
	}
}

func TestLoadJMdictMalformed(t *testing.T) {
	lex := New()
	_, err := lex.LoadJMdict(strings.NewReader(`<JMdict><entry><k_ele><keb>x</k_ele></entry>`))
	if err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

func TestExistsChecksSpellingsOnly(t *testing.T) {
	lex := New()
	lex.Add(Entry{
		Spellings: []Spelling{{Text: "猫"}},
		Readings:  []Reading{{Text: "ねこ"}},
	})

	if !lex.Exists("猫") {
		t.Error("Exists(猫) = false, want true")
	}
	if lex.Exists("ねこ") {
		t.Error("Exists(ねこ) = true, want false: readings are not spellings")
	}
	if lex.Exists("犬") {
		t.Error("Exists(犬) = true, want false")
	}
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	lex := New()
	lex.Add(Entry{ID: 1, Spellings: []Spelling{{Text: "上"}}, Readings: []Reading{{Text: "うえ"}}})
	lex.Add(Entry{ID: 2, Spellings: []Spelling{{Text: "上"}, {Text: "上"}}, Readings: []Reading{{Text: "かみ"}}})
	lex.Add(Entry{ID: 3, Readings: []Reading{{Text: "うえ"}}})

	got := lex.LookupBySpelling("上")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("LookupBySpelling(上) order wrong: %v", ids(got))
	}
	byReading := lex.LookupByReading("うえ")
	if len(byReading) != 2 || byReading[0].ID != 1 || byReading[1].ID != 3 {
		t.Errorf("LookupByReading(うえ) order wrong: %v", ids(byReading))
	}

	st := lex.Stats()
	if st.Entries != 3 || st.Spellings != 1 || st.Readings != 2 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestLookupMissing(t *testing.T) {
	lex := New()
	if got := lex.LookupBySpelling("無い"); len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	yamlContent := `entries:
  - id: 9000001
    spellings:
      - text: 推し
        priorities: [spec1]
    readings:
      - text: おし
    senses:
      - glosses:
          - text: one's favourite
        pos: [noun]
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	lex := New()
	n, err := lex.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if n != 1 || !lex.Exists("推し") {
		t.Fatalf("entry not loaded (n=%d)", n)
	}
	e := lex.LookupByReading("おし")[0]
	if !e.Spellings[0].HasPriority("spec1", "news1") {
		t.Error("expected spec1 priority")
	}
	if !e.Senses[0].Glosses[0].IsEnglish() {
		t.Error("gloss without lang should be English")
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	if _, err := New().LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func ids(es []*Entry) []int64 {
	out := make([]int64, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}
