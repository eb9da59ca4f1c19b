package segment

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// IPA feature positions.
const (
	featPOS     = 0
	featSubtype = 1
	featLemma   = 6
	featReading = 7
)

// Kagome segments text with the kagome tokenizer over the embedded IPA
// dictionary. It is safe for concurrent use.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome builds a segmenter. Loading the dictionary takes a noticeable
// moment, so callers should build one and share it.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome: %w", err)
	}
	return &Kagome{t: t}, nil
}

// Segment tokenizes sentence. Whitespace-only and dummy tokens are dropped.
func (k *Kagome) Segment(sentence string) ([]Segment, error) {
	toks := k.t.Tokenize(sentence)
	out := make([]Segment, 0, len(toks))
	for _, tok := range toks {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		out = append(out, fromFeatures(tok.Surface, tok.Features()))
	}
	return out, nil
}

func fromFeatures(surface string, features []string) Segment {
	seg := Segment{
		Surface:  surface,
		Lemma:    surface,
		Features: strings.Join(features, ","),
	}
	seg.POS = feature(features, featPOS)
	seg.Subtype = feature(features, featSubtype)
	if v := feature(features, featLemma); v != "" {
		seg.Lemma = v
	}
	seg.Reading = feature(features, featReading)
	return seg
}

// feature returns features[i], or "" when absent or "*".
func feature(features []string, i int) string {
	if i >= len(features) || features[i] == "*" {
		return ""
	}
	return features[i]
}
