// Package wordlist provides script filters and word list loading.
package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "ko":
		return filterHangul
	default:
		return func(word string) bool { return word != "" }
	}
}

// hangulRanges covers syllables, jamo, compatibility jamo and the archaic
// jamo extensions.
var hangulRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11ff, Stride: 1},
		{Lo: 0x3130, Hi: 0x318f, Stride: 1},
		{Lo: 0xa960, Hi: 0xa97f, Stride: 1},
		{Lo: 0xac00, Hi: 0xd7af, Stride: 1},
		{Lo: 0xd7b0, Hi: 0xd7ff, Stride: 1},
	},
}

// IsHangul reports whether r is inside the Hangul blocks.
func IsHangul(r rune) bool {
	return unicode.Is(hangulRanges, r)
}

func filterHangul(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !IsHangul(r) {
			return false
		}
	}
	return true
}
