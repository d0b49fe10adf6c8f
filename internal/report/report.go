package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/subtitle"
)

// Glosser turns block content into displayable words.
type Glosser interface {
	Run(content string) []model.Word
}

// BlockGlosses pairs a block with its words.
type BlockGlosses struct {
	Block subtitle.Block
	Words []model.Word
}

// Report contains the glosses of a whole document.
type Report struct {
	Blocks  []BlockGlosses
	Dropped int
}

// Build runs every block of the document through g. Blocks without glosses
// are kept unless skipEmpty is set.
func Build(blocks []subtitle.Block, dropped int, g Glosser, skipEmpty bool) Report {
	r := Report{Dropped: dropped}
	for _, b := range blocks {
		words := g.Run(b.Content)
		if skipEmpty && len(words) == 0 {
			continue
		}
		r.Blocks = append(r.Blocks, BlockGlosses{Block: b, Words: words})
	}
	return r
}

// Headwords returns the number of distinct headwords in the report.
func (r Report) Headwords() int {
	seen := map[string]struct{}{}
	for _, b := range r.Blocks {
		for _, w := range b.Words {
			seen[w.Headword] = struct{}{}
		}
	}
	return len(seen)
}

// WordRows renders words as table lines. Definitions are truncated so lines
// fit in width display columns; width <= 0 disables truncation.
func WordRows(words []model.Word, width int) []string {
	rows := make([][]string, 0, len(words))
	for _, w := range words {
		rows = append(rows, []string{w.Surface, w.Headword, w.Tier.String(), w.Definition})
	}
	lines := formatTable([]string{"Word", "Headword", "Tier", "Definition"}, rows, nil)
	if width <= 0 {
		return lines
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, "…")
	}
	return lines
}

// Lines renders the report for a terminal of the given width.
func (r Report) Lines(width int) []string {
	var out []string
	for i, b := range r.Blocks {
		if i > 0 {
			out = append(out, "")
		}
		header := fmt.Sprintf("%s --> %s  %s",
			subtitle.FormatTimestamp(b.Block.Start),
			subtitle.FormatTimestamp(b.Block.End),
			strings.ReplaceAll(b.Block.Content, "\n", " / "))
		if width > 0 {
			header = runewidth.Truncate(header, width, "…")
		}
		out = append(out, header)
		if len(b.Words) == 0 {
			out = append(out, "  (no glosses)")
			continue
		}
		for _, line := range WordRows(b.Words, width-2) {
			out = append(out, "  "+line)
		}
	}
	out = append(out, "", fmt.Sprintf("%d cues, %d headwords, %d cues dropped", len(r.Blocks), r.Headwords(), r.Dropped))
	return out
}
