// Package corpus reads Japanese source text for mining and example
// sentences.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Item is one document of a JSONL corpus.
type Item struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Outlet string `json:"outlet"`
	Body   string `json:"text"`
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines are logged
// and skipped.
func LoadFromJSONL(path string, logger *slog.Logger) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()
	if logger == nil {
		logger = slog.Default()
	}

	var items []Item
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for i := 1; sc.Scan(); i++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logger.Warn("skipping malformed JSON", "path", path, "line", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}
	return items, nil
}

// LoadLines returns the sentences of a corpus file. ".jsonl" files are
// read as items whose title and text are split into sentences; anything
// else is read as plain text.
func LoadLines(path string, logger *slog.Logger) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		items, err := LoadFromJSONL(path, logger)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, it := range items {
			out = append(out, Sentences(it.Title)...)
			out = append(out, Sentences(it.Body)...)
		}
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()
	return ReadSentences(f)
}

// ReadSentences splits the text of r into sentences.
func ReadSentences(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Sentences(string(data)), nil
}

// Sentences splits text after 。！？!? and at line breaks, dropping blank
// pieces. Closing brackets and quotes stay with their sentence.
func Sentences(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		cur.WriteRune(r)
		if !isTerminator(r) {
			continue
		}
		for i+1 < len(runes) && (isCloser(runes[i+1]) || isTerminator(runes[i+1])) {
			i++
			cur.WriteRune(runes[i])
		}
		flush()
	}
	flush()
	return out
}

func isTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '」', '』', '）', ')', '”':
		return true
	}
	return false
}
