// Package sentences keeps a cache of example sentences and picks the one
// best suited to illustrate a word.
//
// The cache file is a sequence of blocks, each a sentence line followed by
// its comma separated study roots and a blank line:
//
//	猫が好きです。
//	猫,好き
//
// Sentences are grouped under integer priorities; lower values are searched
// first.
package sentences

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/filter"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

// DefaultPriority is used for caches loaded without an explicit priority.
const DefaultPriority = 100

// Disallowed parts of speech never count as a sentence's study roots.
var Disallowed = map[token.PartOfSpeech]bool{
	token.Particle:      true,
	token.Symbol:        true,
	token.Prefix:        true,
	token.AuxiliaryVerb: true,
	token.Interjection:  true,
	token.Conjunction:   true,
	token.Filler:        true,
	token.Unknown:       true,
}

// Tokenizer assembles the tokens of one sentence.
type Tokenizer interface {
	Tokenize(sentence string) ([]token.Token, error)
}

// Sentence is a cached sentence with its study roots.
type Sentence struct {
	Text  string
	Roots []string
}

// Manager holds prioritized example sentences.
type Manager struct {
	byPriority map[int][]Sentence
	logger     *slog.Logger
}

// New creates an empty manager. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{byPriority: make(map[int][]Sentence), logger: logger}
}

// StudyRoots returns the roots of toks worth studying, in order.
func StudyRoots(toks []token.Token, ignore *filter.IgnoreList) []string {
	var out []string
	for _, t := range toks {
		if Disallowed[t.PartOfSpeech] || !filter.Learnable(t.RootText) || ignore.Contains(t.RootText) {
			continue
		}
		out = append(out, t.RootText)
	}
	return out
}

// BuildCache tokenizes sentences and writes the cache to w. Sentences
// without study roots are skipped. It returns the number written.
func BuildCache(tz Tokenizer, sentences []string, ignore *filter.IgnoreList, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		toks, err := tz.Tokenize(s)
		if err != nil {
			return n, fmt.Errorf("tokenize %q: %w", s, err)
		}
		roots := StudyRoots(toks, ignore)
		if len(roots) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s\n%s\n\n", s, strings.Join(roots, ",")); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Load reads a cache under priority, appending to anything already loaded
// at that priority.
func (m *Manager) Load(r io.Reader, priority int) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if len(lines)%2 != 0 {
		return 0, fmt.Errorf("sentence cache: %d non-empty lines, want pairs", len(lines))
	}

	loaded := make([]Sentence, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		loaded = append(loaded, Sentence{Text: lines[i], Roots: strings.Split(lines[i+1], ",")})
	}
	m.byPriority[priority] = append(m.byPriority[priority], loaded...)
	return len(loaded), nil
}

// Add registers one sentence directly.
func (m *Manager) Add(priority int, s Sentence) {
	m.byPriority[priority] = append(m.byPriority[priority], s)
}

// Len returns the number of loaded sentences.
func (m *Manager) Len() int {
	n := 0
	for _, ss := range m.byPriority {
		n += len(ss)
	}
	return n
}

// Pick returns the sentence containing root with the fewest other roots
// missing from known. Priorities are searched lowest first and the first
// sentence with no unknown roots wins outright; otherwise the earliest
// sentence with the fewest unknowns is kept. ok is false when no sentence
// contains root.
func (m *Manager) Pick(root string, known map[string]bool) (string, bool) {
	priorities := make([]int, 0, len(m.byPriority))
	for p := range m.byPriority {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	best, fewest := "", -1
	for _, p := range priorities {
		for _, s := range m.byPriority[p] {
			if !slices.Contains(s.Roots, root) {
				continue
			}
			unknown := 0
			for _, r := range s.Roots {
				if r != root && !known[r] {
					unknown++
				}
			}
			m.logger.Debug("candidate sentence", "root", root, "sentence", s.Text, "unknown", unknown)
			if unknown == 0 {
				return s.Text, true
			}
			if fewest < 0 || unknown < fewest {
				best, fewest = s.Text, unknown
			}
		}
	}
	return best, fewest >= 0
}
