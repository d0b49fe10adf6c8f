package wordlist

import "testing"

func TestFilterHangul(t *testing.T) {
	filter := FilterForLang("ko")
	for _, word := range []string{"안녕", "ㅋㅋ", "하세요"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass korean filter", word)
		}
	}
	for _, word := range []string{"", "hello", "안녕!", "3월", "漢字"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestIsHangulRanges(t *testing.T) {
	for _, r := range []rune{0xac00, 0xd7a3, 0x1100, 0x3131, 0xa960, 0xd7b0} {
		if !IsHangul(r) {
			t.Fatalf("expected U+%04X to be hangul", r)
		}
	}
	for _, r := range []rune{'a', ' ', '(', 0x4e00, 0xff08} {
		if IsHangul(r) {
			t.Fatalf("expected U+%04X not to be hangul", r)
		}
	}
}
