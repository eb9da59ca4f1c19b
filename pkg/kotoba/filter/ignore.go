package filter

import "sort"

// IgnoreList holds roots the user never wants to see again.
type IgnoreList struct {
	roots map[string]Source
}

// Source records where an ignored root came from.
type Source string

const (
	SourceConfig Source = "config" // ignore-list file
	SourceStore  Source = "store"  // persisted by an earlier run
	SourceManual Source = "manual" // added at runtime
)

// NewIgnoreList creates a list seeded from the ignore-list file.
func NewIgnoreList(roots []string) *IgnoreList {
	m := make(map[string]Source, len(roots))
	for _, r := range roots {
		m[r] = SourceConfig
	}
	return &IgnoreList{roots: m}
}

// Contains reports whether root is ignored. A nil list ignores nothing.
func (l *IgnoreList) Contains(root string) bool {
	if l == nil {
		return false
	}
	_, ok := l.roots[root]
	return ok
}

// Add ignores root. An existing entry keeps its original source.
func (l *IgnoreList) Add(root string, src Source) {
	if _, ok := l.roots[root]; !ok {
		l.roots[root] = src
	}
}

// Remove stops ignoring root.
func (l *IgnoreList) Remove(root string) {
	delete(l.roots, root)
}

// SourceOf returns where root was added from.
func (l *IgnoreList) SourceOf(root string) (Source, bool) {
	s, ok := l.roots[root]
	return s, ok
}

// All returns every ignored root, sorted.
func (l *IgnoreList) All() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.roots))
	for r := range l.roots {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of ignored roots.
func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.roots)
}
