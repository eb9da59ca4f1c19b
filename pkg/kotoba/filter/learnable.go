package filter

import (
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/segment"
)

// Learnable reports whether root can become a study item: not the
// segmenter's "*" placeholder, free of ASCII and full-width letters and
// digits, and not a single kana.
func Learnable(root string) bool {
	if root == "" || root == "*" {
		return false
	}
	if strings.IndexFunc(root, latinOrDigit) >= 0 {
		return false
	}
	return !segment.IsSingleKana(root)
}

func latinOrDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '０' && r <= '９', r >= 'ａ' && r <= 'ｚ', r >= 'Ａ' && r <= 'Ｚ':
		return true
	}
	return false
}
