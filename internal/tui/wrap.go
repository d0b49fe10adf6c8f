package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kovocab/internal/model"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func styleText(text string, style lipgloss.Style) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		isSpace := r == ' '
		s := " "
		if !isSpace {
			s = style.Render(string(r))
		}
		out = append(out, styledRune{s: s, width: runewidth.RuneWidth(r), isSpace: isSpace})
	}
	return out
}

func space() styledRune {
	return styledRune{s: " ", width: 1, isSpace: true}
}

// glossRunes lays out one word as "[tier] surface (headword) definition".
// The headword is omitted when it equals the surface form.
func glossRunes(w model.Word) []styledRune {
	out := styleText("["+w.Tier.String()+"]", tierStyle(w.Tier))
	out = append(out, space())
	out = append(out, styleText(w.Surface, surfaceStyle)...)
	if w.Headword != "" && w.Headword != w.Surface {
		out = append(out, space())
		out = append(out, styleText("("+w.Headword+")", headwordStyle)...)
	}
	if w.Definition != "" {
		out = append(out, space())
		out = append(out, styleText(w.Definition, definitionStyle)...)
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
