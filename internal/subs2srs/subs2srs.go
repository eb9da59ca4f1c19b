// Package subs2srs annotates subs2srs exports with the study roots of each
// subtitle line.
package subs2srs

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// Tokenizer assembles the tokens of one subtitle line.
type Tokenizer interface {
	Tokenize(sentence string) ([]token.Token, error)
}

// Line is one row of a subs2srs export.
type Line struct {
	Episode  string
	Timing   string
	Audio    string
	Image    string
	Japanese string
}

// Header is the first row written by Process.
var Header = []string{"Episode", "Timing", "Japanese", "Tokens"}

const inputColumns = 5

// Read parses a headerless tab separated export whose first five columns
// are episode, timing, audio, image and Japanese text.
func Read(r io.Reader) ([]Line, error) {
	cr := newReader(r)
	var lines []Line
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("subs2srs row %d: %w", row, err)
		}
		if len(rec) < inputColumns {
			return nil, fmt.Errorf("subs2srs row %d: %d columns, want %d", row, len(rec), inputColumns)
		}
		lines = append(lines, Line{
			Episode:  rec[0],
			Timing:   rec[1],
			Audio:    rec[2],
			Image:    rec[3],
			Japanese: rec[4],
		})
	}
}

// Process tokenizes every line read from r and writes episode, timing,
// text and comma separated roots to w. limit caps the number of lines when
// positive. It returns the number of lines written.
func Process(tz Tokenizer, r io.Reader, w io.Writer, limit int, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lines, err := Read(r)
	if err != nil {
		return 0, err
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(Header); err != nil {
		return 0, err
	}
	for i, l := range lines {
		toks, err := tz.Tokenize(l.Japanese)
		if err != nil {
			return i, fmt.Errorf("tokenize %s %s: %w", l.Episode, l.Timing, err)
		}
		if err := cw.Write([]string{l.Episode, l.Timing, l.Japanese, strings.Join(token.Roots(toks), ",")}); err != nil {
			return i, err
		}
		logger.Debug("processed subtitle line", "line", i+1, "total", len(lines))
	}
	cw.Flush()
	return len(lines), cw.Error()
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
