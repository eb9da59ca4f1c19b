package lexicon

import "slices"

// Entry is one dictionary entry. Spellings and readings keep dictionary
// order; the first spelling is the entry's headword.
type Entry struct {
	ID        int64      `yaml:"id" json:"id"`
	Spellings []Spelling `yaml:"spellings" json:"spellings"`
	Readings  []Reading  `yaml:"readings" json:"readings"`
	Senses    []Sense    `yaml:"senses" json:"senses"`
}

// Spelling is a written (usually kanji) form with its priority tags,
// e.g. "ichi1" or "news1".
type Spelling struct {
	Text       string   `yaml:"text" json:"text"`
	Priorities []string `yaml:"priorities,omitempty" json:"priorities,omitempty"`
}

// Reading is a kana form with its priority tags.
type Reading struct {
	Text       string   `yaml:"text" json:"text"`
	Priorities []string `yaml:"priorities,omitempty" json:"priorities,omitempty"`
}

// Sense groups glosses sharing a part of speech.
type Sense struct {
	Glosses       []Gloss  `yaml:"glosses" json:"glosses"`
	PartsOfSpeech []string `yaml:"pos,omitempty" json:"pos,omitempty"`
	Misc          []string `yaml:"misc,omitempty" json:"misc,omitempty"`
	Info          []string `yaml:"info,omitempty" json:"info,omitempty"`
}

// Gloss is a translation. An empty Lang means English.
type Gloss struct {
	Text string `yaml:"text" json:"text"`
	Lang string `yaml:"lang,omitempty" json:"lang,omitempty"`
}

// LangEnglish is the JMdict language code for English glosses.
const LangEnglish = "eng"

// IsEnglish reports whether the gloss is in English.
func (g Gloss) IsEnglish() bool { return g.Lang == "" || g.Lang == LangEnglish }

// HasPriority reports whether the spelling carries any of tags.
func (s Spelling) HasPriority(tags ...string) bool {
	return hasAny(s.Priorities, tags)
}

// HasPriority reports whether the reading carries any of tags.
func (r Reading) HasPriority(tags ...string) bool {
	return hasAny(r.Priorities, tags)
}

// HasSpelling reports whether text is one of the entry's spellings.
func (e *Entry) HasSpelling(text string) bool {
	for _, s := range e.Spellings {
		if s.Text == text {
			return true
		}
	}
	return false
}

// HasReading reports whether text is one of the entry's readings.
func (e *Entry) HasReading(text string) bool {
	for _, r := range e.Readings {
		if r.Text == text {
			return true
		}
	}
	return false
}

// EnglishSenses returns the senses that have at least one English gloss,
// keeping only their English glosses.
func (e *Entry) EnglishSenses() []Sense {
	var out []Sense
	for _, s := range e.Senses {
		var glosses []Gloss
		for _, g := range s.Glosses {
			if g.IsEnglish() {
				glosses = append(glosses, g)
			}
		}
		if len(glosses) == 0 {
			continue
		}
		s.Glosses = glosses
		out = append(out, s)
	}
	return out
}

func hasAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
