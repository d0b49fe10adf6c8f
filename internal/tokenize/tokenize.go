// Package tokenize extracts candidate Korean words from subtitle text.
package tokenize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/verte-zerg/kovocab/internal/wordlist"
)

// Asides such as speaker names and sound effects. Non-greedy, non-nested.
var reAside = regexp.MustCompile(`\([^)]*?\)|\[[^\]]*?\]|（[^）]*?）`)

// Tokenize returns the distinct Hangul tokens of content in first-seen order.
func Tokenize(content string) []string {
	content = strings.ReplaceAll(content, "\r", " ")
	content = strings.ReplaceAll(content, "\n", " ")
	content = reAside.ReplaceAllString(content, " ")
	content = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if wordlist.IsHangul(r) {
			return r
		}
		return -1
	}, content)

	fields := strings.Fields(content)
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	return tokens
}
