package report

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/subtitle"
)

func TestFormatTableAlignsWideRunes(t *testing.T) {
	headers := []string{"Word", "Headword", "Rank"}
	rows := [][]string{
		{"갔어", "가다", "12"},
		{"사랑해요", "사랑하다", "340"},
	}
	lines := formatTable(headers, rows, map[int]bool{2: true})
	want := []string{
		"Word      Headword  Rank",
		"갔어      가다        12",
		"사랑해요  사랑하다   340",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatTableNoTrailingSpaces(t *testing.T) {
	lines := formatTable([]string{"A", "Definition"}, [][]string{{"x", "y"}}, nil)
	for _, line := range lines {
		if strings.HasSuffix(line, " ") {
			t.Fatalf("unexpected trailing space in %q", line)
		}
	}
	if formatTable(nil, nil, nil) != nil {
		t.Fatalf("expected nil for empty table")
	}
}

type fakeGlosser map[string][]model.Word

func (f fakeGlosser) Run(content string) []model.Word {
	return f[content]
}

var blocks = []subtitle.Block{
	{Start: 1, End: 2.5, Content: "어디 갔어?"},
	{Start: 3, End: 4, Content: "음"},
	{Start: 61, End: 62, Content: "사랑해요\n정말"},
}

var glosses = fakeGlosser{
	"어디 갔어?": {
		{Surface: "어디", Headword: "어디", Definition: "where", Tier: model.TierA},
		{Surface: "갔어", Headword: "가다", Definition: "to go", Tier: model.TierA},
	},
	"사랑해요\n정말": {
		{Surface: "사랑해요", Headword: "사랑하다", Definition: "to love", Tier: model.TierB},
		{Surface: "정말", Headword: "정말", Definition: "really", Tier: model.TierA},
	},
}

func TestBuild(t *testing.T) {
	r := Build(blocks, 4, glosses, false)
	if len(r.Blocks) != 3 || r.Dropped != 4 {
		t.Fatalf("unexpected report: %+v", r)
	}
	if len(r.Blocks[1].Words) != 0 {
		t.Fatalf("expected no words for second block")
	}
	if r.Headwords() != 4 {
		t.Fatalf("expected 4 headwords, got %d", r.Headwords())
	}

	skipped := Build(blocks, 0, glosses, true)
	if len(skipped.Blocks) != 2 {
		t.Fatalf("expected empty block to be skipped, got %d", len(skipped.Blocks))
	}
}

func TestLines(t *testing.T) {
	lines := Build(blocks, 1, glosses, false).Lines(0)
	out := strings.Join(lines, "\n")
	for _, want := range []string{
		"00:00:01.000 --> 00:00:02.500  어디 갔어?",
		"00:01:01.000 --> 00:01:02.000  사랑해요 / 정말",
		"  (no glosses)",
		"3 cues, 4 headwords, 1 cues dropped",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWordRowsTruncatesToWidth(t *testing.T) {
	words := []model.Word{{Surface: "사랑해요", Headword: "사랑하다", Definition: "to love someone very much", Tier: model.TierB}}
	for _, line := range WordRows(words, 30) {
		if w := runewidth.StringWidth(line); w > 30 {
			t.Fatalf("line wider than 30 columns (%d): %q", w, line)
		}
	}
	rows := WordRows(words, 0)
	if !strings.HasSuffix(rows[1], "to love someone very much") {
		t.Fatalf("expected full definition without width, got %q", rows[1])
	}
}
