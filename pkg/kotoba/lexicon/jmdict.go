package lexicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// JMdict XML layout. Only the elements the lexicon keeps are mapped.
type jmEntry struct {
	Seq     string    `xml:"ent_seq"`
	Kanji   []jmKanji `xml:"k_ele"`
	Reading []jmRead  `xml:"r_ele"`
	Sense   []jmSense `xml:"sense"`
}

type jmKanji struct {
	Text string   `xml:"keb"`
	Pri  []string `xml:"ke_pri"`
}

type jmRead struct {
	Text string   `xml:"reb"`
	Pri  []string `xml:"re_pri"`
}

type jmSense struct {
	POS   []string  `xml:"pos"`
	Misc  []string  `xml:"misc"`
	Info  []string  `xml:"s_inf"`
	Gloss []jmGloss `xml:"gloss"`
}

type jmGloss struct {
	Lang string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Text string `xml:",chardata"`
}

// entityDecl matches <!ENTITY name "value"> declarations in the DOCTYPE.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s]+)\s+"([^"]*)">`)

// LoadJMdictFile reads a JMdict XML file into l.
func (l *Lexicon) LoadJMdictFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return l.LoadJMdict(f)
}

// LoadJMdict streams JMdict XML from r into l and returns the number of
// entries added. Entity references such as &n; in <pos> and <misc> are
// expanded to their DOCTYPE descriptions.
func (l *Lexicon) LoadJMdict(r io.Reader) (int, error) {
	d := xml.NewDecoder(r)
	d.Entity = make(map[string]string)

	n := 0
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("jmdict: %w", err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(t), -1) {
				d.Entity[m[1]] = m[2]
			}
		case xml.StartElement:
			if t.Name.Local != "entry" {
				continue
			}
			var raw jmEntry
			if err := d.DecodeElement(&raw, &t); err != nil {
				return n, fmt.Errorf("jmdict entry %d: %w", n+1, err)
			}
			l.Add(raw.entry())
			n++
		}
	}
}

func (j jmEntry) entry() Entry {
	id, _ := strconv.ParseInt(strings.TrimSpace(j.Seq), 10, 64)
	e := Entry{ID: id}
	for _, k := range j.Kanji {
		e.Spellings = append(e.Spellings, Spelling{Text: k.Text, Priorities: k.Pri})
	}
	for _, r := range j.Reading {
		e.Readings = append(e.Readings, Reading{Text: r.Text, Priorities: r.Pri})
	}
	for _, s := range j.Sense {
		sense := Sense{PartsOfSpeech: s.POS, Misc: s.Misc, Info: s.Info}
		for _, g := range s.Gloss {
			sense.Glosses = append(sense.Glosses, Gloss{Text: g.Text, Lang: g.Lang})
		}
		e.Senses = append(e.Senses, sense)
	}
	return e
}
