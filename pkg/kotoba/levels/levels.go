// Package levels maps vocabulary to JLPT proficiency levels.
package levels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MinLevel and MaxLevel bound the JLPT levels (N1 hardest, N5 easiest).
const (
	MinLevel = 1
	MaxLevel = 5
)

// Table holds one level per word.
type Table struct {
	levels map[string]int
	order  []string
}

// New creates an empty table.
func New() *Table {
	return &Table{levels: make(map[string]int)}
}

// LoadFile reads a level file from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load levels %s: %w", path, err)
	}
	return t, nil
}

// Load reads "level,word" lines. Lines with a level outside 1..5, or with
// the wrong number of fields, are skipped. The first level seen for a word
// wins.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	t := New()
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != 2 {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		t.Set(strings.TrimSpace(rec[1]), level)
	}
}

// Set records level for word unless word already has one or level is out
// of range. It reports whether the level was recorded.
func (t *Table) Set(word string, level int) bool {
	if word == "" || level < MinLevel || level > MaxLevel {
		return false
	}
	if _, ok := t.levels[word]; ok {
		return false
	}
	t.levels[word] = level
	t.order = append(t.order, word)
	return true
}

// GetLevel returns the level of word.
func (t *Table) GetLevel(word string) (int, bool) {
	l, ok := t.levels[word]
	return l, ok
}

// VocabForLevel returns the words at level in file order.
func (t *Table) VocabForLevel(level int) []string {
	var out []string
	for _, w := range t.order {
		if t.levels[w] == level {
			out = append(out, w)
		}
	}
	return out
}

// Len returns the number of words with a level.
func (t *Table) Len() int { return len(t.levels) }
