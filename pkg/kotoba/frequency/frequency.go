// Package frequency holds corpus frequency ranks and the rank buckets used
// to tag flashcards.
package frequency

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Table maps terms to their frequency rank (1 is most frequent).
type Table struct {
	ranks map[string]int
}

// New creates a table from ranks. The map is used directly.
func New(ranks map[string]int) *Table {
	if ranks == nil {
		ranks = make(map[string]int)
	}
	return &Table{ranks: ranks}
}

// LoadFile reads a frequency list from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load frequency %s: %w", path, err)
	}
	return t, nil
}

// Load reads a JSON array of [term, kind, rank] rows. The rank may be a
// number or a numeric string. A later row for the same term overrides an
// earlier one.
func Load(r io.Reader) (*Table, error) {
	d := json.NewDecoder(r)
	d.UseNumber()

	var rows [][]any
	if err := d.Decode(&rows); err != nil {
		return nil, err
	}

	ranks := make(map[string]int, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: want 3 fields, got %d", i, len(row))
		}
		term, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row %d: term is %T", i, row[0])
		}
		rank, err := toInt(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ranks[term] = rank
	}
	return New(ranks), nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(x)
	default:
		return 0, fmt.Errorf("rank is %T", v)
	}
}

// GetFrequency returns the rank of term.
func (t *Table) GetFrequency(term string) (int, bool) {
	r, ok := t.ranks[term]
	return r, ok
}

// FrequenciesExcept returns the ranks of every term not in except.
func (t *Table) FrequenciesExcept(except []string) map[string]int {
	skip := make(map[string]struct{}, len(except))
	for _, e := range except {
		skip[e] = struct{}{}
	}
	out := make(map[string]int, len(t.ranks))
	for term, r := range t.ranks {
		if _, ok := skip[term]; !ok {
			out[term] = r
		}
	}
	return out
}

// Len returns the number of ranked terms.
func (t *Table) Len() int { return len(t.ranks) }
