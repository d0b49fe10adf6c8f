package subtitle

import (
	"html"
	"regexp"
	"strings"
)

// Block is one timed caption with markup removed.
type Block struct {
	Start   float64
	End     float64
	Content string
}

// Contains reports whether t falls inside the block. Both bounds are inclusive.
func (b Block) Contains(t float64) bool {
	return b.Start <= t && t <= b.End
}

var (
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reBlankLines = regexp.MustCompile(`\n[ \t]*\n[ \t\n]*`)
	dirMarks     = strings.NewReplacer(
		"&lrm;", "", "&rlm;", "",
		"\u200e", "", "\u200f", "",
		"\u202a", "", "\u202b", "", "\u202c", "", "\u202d", "", "\u202e", "",
	)
)

// Segment parses a subtitle document into blocks in document order and
// returns the number of cues it dropped as malformed or empty. Chunks without
// a timing line (header, NOTE, STYLE) are skipped and not counted.
//
// Blocks are not re-sorted. Locate requires ascending start times, which real
// subtitle files already satisfy.
func Segment(doc string) ([]Block, int) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")
	doc = strings.TrimPrefix(doc, "\ufeff")

	var blocks []Block
	dropped := 0
	for _, chunk := range reBlankLines.Split(strings.Trim(doc, "\n"), -1) {
		lines := strings.Split(chunk, "\n")
		timing := timingLineIndex(lines)
		if timing < 0 {
			continue
		}
		block, ok := parseCue(lines[timing], lines[timing+1:])
		if !ok {
			dropped++
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks, dropped
}

// timingLineIndex finds the timing line of a cue. It may be preceded by at
// most one identifier line.
func timingLineIndex(lines []string) int {
	for i := 0; i < len(lines) && i < 2; i++ {
		if strings.Contains(lines[i], "-->") {
			return i
		}
	}
	return -1
}

func parseCue(timing string, content []string) (Block, bool) {
	fields := strings.Fields(timing)
	if len(fields) < 3 || fields[1] != "-->" {
		return Block{}, false
	}
	start, err := ParseTimestamp(fields[0])
	if err != nil {
		return Block{}, false
	}
	end, err := ParseTimestamp(fields[2])
	if err != nil {
		return Block{}, false
	}
	if end <= start {
		return Block{}, false
	}

	cleaned := make([]string, 0, len(content))
	for _, line := range content {
		if line = cleanLine(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	if len(cleaned) == 0 {
		return Block{}, false
	}
	return Block{Start: start, End: end, Content: strings.Join(cleaned, "\n")}, true
}

func cleanLine(line string) string {
	line = reTag.ReplaceAllString(line, "")
	line = dirMarks.Replace(line)
	line = html.UnescapeString(line)
	return strings.TrimSpace(line)
}
