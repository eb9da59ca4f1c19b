// Package segment defines the morphological segments the assembly engine
// consumes and the IPA tag scheme used to classify them.
package segment

import (
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// Segment is one morphological unit of a sentence, as produced by a
// Segmenter. Segments are read-only once produced.
type Segment struct {
	Surface  string `json:"surface"`
	Lemma    string `json:"lemma"`
	POS      string `json:"pos"`
	Subtype  string `json:"subtype"`
	Reading  string `json:"reading,omitempty"`
	Features string `json:"features,omitempty"`
}

// Segmenter splits a sentence into segments in left-to-right order.
type Segmenter interface {
	Segment(sentence string) ([]Segment, error)
}

// IPA dictionary part-of-speech tags.
const (
	TagNoun              = "名詞"
	TagVerb              = "動詞"
	TagAdjective         = "形容詞"
	TagAdverb            = "副詞"
	TagParticle          = "助詞"
	TagAuxiliaryVerb     = "助動詞"
	TagSymbol            = "記号"
	TagPrefix            = "接頭詞"
	TagInterjection      = "感動詞"
	TagPreNounAdjectival = "連体詞"
	TagConjunction       = "接続詞"
	TagFiller            = "フィラー"
)

// IPA subtype tags the merge rules match on.
const (
	SubtypeConjunctiveParticle = "接続助詞"
	SubtypeNotIndependent      = "非自立"
	SubtypeSuffix              = "接尾"
)

// LightVerb is the lemma a preceding noun absorbs.
const LightVerb = "する"

var categories = map[string]token.PartOfSpeech{
	TagNoun:              token.Noun,
	TagVerb:              token.Verb,
	TagAdjective:         token.Adjective,
	TagAdverb:            token.Adverb,
	TagParticle:          token.Particle,
	TagAuxiliaryVerb:     token.AuxiliaryVerb,
	TagSymbol:            token.Symbol,
	TagPrefix:            token.Prefix,
	TagInterjection:      token.Interjection,
	TagPreNounAdjectival: token.PreNounAdjectival,
	TagConjunction:       token.Conjunction,
	TagFiller:            token.Filler,
}

// Classify maps a part-of-speech tag to its category. Unrecognized tags
// map to token.Unknown.
func Classify(tag string) token.PartOfSpeech {
	if pos, ok := categories[tag]; ok {
		return pos
	}
	return token.Unknown
}

// Describe renders a comma separated feature string with English labels.
// Labels without a translation pass through unchanged.
func Describe(features string) string {
	if features == "" {
		return ""
	}
	parts := strings.Split(features, ",")
	for i, p := range parts {
		if label, ok := labels[p]; ok {
			parts[i] = label
		}
	}
	return strings.Join(parts, ", ")
}
