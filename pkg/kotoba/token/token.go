package token

import "strings"

// PartOfSpeech is the coarse grammatical category assigned to a token.
type PartOfSpeech string

const (
	Noun              PartOfSpeech = "NOUN"
	Verb              PartOfSpeech = "VERB"
	Adjective         PartOfSpeech = "ADJECTIVE"
	Adverb            PartOfSpeech = "ADVERB"
	Particle          PartOfSpeech = "PARTICLE"
	AuxiliaryVerb     PartOfSpeech = "AUXILIARY_VERB"
	Symbol            PartOfSpeech = "SYMBOL"
	Prefix            PartOfSpeech = "PREFIX"
	Interjection      PartOfSpeech = "INTERJECTION"
	PreNounAdjectival PartOfSpeech = "PRE_NOUN_ADJECTIVAL"
	Conjunction       PartOfSpeech = "CONJUNCTION"
	Filler            PartOfSpeech = "FILLER"
	Unknown           PartOfSpeech = "UNKNOWN"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case Noun, Verb, Adjective, Adverb, Particle, AuxiliaryVerb, Symbol, Prefix,
		Interjection, PreNounAdjectival, Conjunction, Filler, Unknown:
		return true
	}
	return false
}

// Token is an assembled unit of a sentence. A token that absorbed later
// segments keeps them, oldest first, in SubTokens.
type Token struct {
	RawText        string       `json:"raw_text"`
	RootText       string       `json:"root_text"`
	PartOfSpeech   PartOfSpeech `json:"part_of_speech"`
	Subtype        string       `json:"subtype,omitempty"`
	Features       string       `json:"features,omitempty"`
	Reading        string       `json:"reading,omitempty"`
	SourceSentence string       `json:"source_sentence,omitempty"`
	SubTokens      []Token      `json:"sub_tokens,omitempty"`

	// Compound marks an additional candidate discovered by scanning
	// consecutive nouns. It does not replace the nouns it was built from.
	Compound bool `json:"compound,omitempty"`
}

// FullRawText reconstructs the surface span covered by the token.
func (t Token) FullRawText() string {
	if len(t.SubTokens) == 0 {
		return t.RawText
	}
	var b strings.Builder
	b.WriteString(t.RawText)
	for _, sub := range t.SubTokens {
		b.WriteString(sub.RawText)
	}
	return b.String()
}

func (t Token) String() string {
	if t.RawText != t.RootText || len(t.SubTokens) > 0 {
		return t.RootText + " - " + t.FullRawText() + " - " + string(t.PartOfSpeech)
	}
	return t.FullRawText() + " - " + string(t.PartOfSpeech)
}

// Roots returns the RootText of every token, in order.
func Roots(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.RootText
	}
	return out
}
