package segment

// Character ranges for the three Japanese scripts.
const (
	hiraganaLo, hiraganaHi = 0x3040, 0x309F
	katakanaLo, katakanaHi = 0x30A0, 0x30FF
	kanjiLo, kanjiHi       = 0x4E00, 0x9FBF
)

func IsHiragana(r rune) bool { return r >= hiraganaLo && r <= hiraganaHi }
func IsKatakana(r rune) bool { return r >= katakanaLo && r <= katakanaHi }
func IsKana(r rune) bool     { return IsHiragana(r) || IsKatakana(r) }
func IsKanji(r rune) bool    { return r >= kanjiLo && r <= kanjiHi }

// IsJapanese reports whether r is kana or kanji.
func IsJapanese(r rune) bool { return IsKana(r) || IsKanji(r) }

// IsSingleKana reports whether s is exactly one kana character.
func IsSingleKana(s string) bool {
	rs := []rune(s)
	return len(rs) == 1 && IsKana(rs[0])
}

// IsAllJapanese reports whether s is non-empty and made only of kana and kanji.
func IsAllJapanese(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsJapanese(r) {
			return false
		}
	}
	return true
}

// HasKanji reports whether s contains at least one kanji.
func HasKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}
