package lexicon

import (
	"strings"
	"testing"

	"github.com/verte-zerg/kovocab/internal/model"
)

func testTables() *Tables {
	tables := NewTables()
	tables.Dictionary["가다"] = model.Entry{Headword: "가다", Definition: "to go", Tier: model.TierA}
	tables.Dictionary["사랑"] = model.Entry{Headword: "사랑", Definition: "love", Tier: model.TierB}
	tables.Dictionary["사랑하다"] = model.Entry{Headword: "사랑하다", Definition: "to love", Tier: model.TierB}
	tables.Dictionary["학교"] = model.Entry{Headword: "학교", Definition: "school", Tier: model.TierA}
	tables.Inflections["갔어"] = "가다"
	tables.Inflections["사랑해"] = "사랑하다"
	return tables
}

func TestResolveInflection(t *testing.T) {
	r := NewResolver(testTables(), 0)
	w, ok := r.Resolve("갔어")
	if !ok || w.Headword != "가다" || w.Surface != "갔어" {
		t.Fatalf("expected 갔어 to resolve to 가다, got %+v %v", w, ok)
	}
	w, ok = r.Resolve("갔어요")
	if !ok || w.Headword != "가다" || w.Surface != "갔어요" {
		t.Fatalf("expected 갔어요 to resolve to 가다, got %+v %v", w, ok)
	}
}

func TestResolvePrefersLongestPrefix(t *testing.T) {
	r := NewResolver(testTables(), 0)
	// 사랑해요 -> 사랑해 (inflection of 사랑하다) must win over 사랑.
	w, ok := r.Resolve("사랑해요")
	if !ok || w.Headword != "사랑하다" {
		t.Fatalf("expected 사랑하다, got %+v %v", w, ok)
	}
}

func TestResolveExactBeforeInflection(t *testing.T) {
	tables := testTables()
	tables.Inflections["학교"] = "가다"
	r := NewResolver(tables, 0)
	w, ok := r.Resolve("학교")
	if !ok || w.Headword != "학교" {
		t.Fatalf("expected exact entry to win, got %+v", w)
	}
}

func TestResolveBoundedStrip(t *testing.T) {
	r := NewResolver(testTables(), 0)
	// Four trailing runes would have to go; only three may be stripped.
	if w, ok := r.Resolve("학교에서부터"); ok {
		t.Fatalf("expected miss, got %+v", w)
	}
	if w, ok := r.Resolve("학교에서는"); !ok || w.Headword != "학교" {
		t.Fatalf("expected 학교 after stripping three runes, got %+v %v", w, ok)
	}
	// Two-rune tokens are tried once.
	if _, ok := r.Resolve("학생"); ok {
		t.Fatalf("expected two-rune miss")
	}
}

func TestResolveSingleRune(t *testing.T) {
	tables := NewTables()
	tables.Dictionary["눈"] = model.Entry{Definition: "eye"}
	r := NewResolver(tables, 0)
	w, ok := r.Resolve("눈")
	if !ok || w.Headword != "눈" {
		t.Fatalf("expected single-rune hit with headword filled in, got %+v %v", w, ok)
	}
	if _, ok := r.Resolve(""); ok {
		t.Fatalf("expected empty token to miss")
	}
}

func TestAttempts(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 1, 3: 2, 4: 3, 5: 4, 9: 4} {
		if got := attempts(n); got != want {
			t.Fatalf("attempts(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestResolverCacheIsIdempotent(t *testing.T) {
	r := NewResolver(testTables(), 8)
	first, ok1 := r.Resolve("갔어요")
	second, ok2 := r.Resolve("갔어요")
	if ok1 != ok2 || first != second {
		t.Fatalf("expected cached result to match: %+v vs %+v", first, second)
	}
	if _, ok := r.Resolve("없는말"); ok {
		t.Fatalf("expected miss")
	}
	if _, ok := r.Resolve("없는말"); ok {
		t.Fatalf("expected cached miss")
	}
}

func TestLoadDictionaryJSON(t *testing.T) {
	doc := `{
		"가다": {"defs": "to go|to leave", "level": "a"},
		"갔어": {"roots": {"가다": 1}},
		"어렵다": {"def": "difficult", "level": "C"},
		"희귀": {"definition": "rare"}
	}`
	tables, err := LoadDictionaryJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadDictionaryJSON failed: %v", err)
	}
	if e := tables.Dictionary["가다"]; e.Definition != "to go, to leave" || e.Tier != model.TierA {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if tables.Inflections["갔어"] != "가다" {
		t.Fatalf("expected roots to become an inflection, got %v", tables.Inflections)
	}
	if e := tables.Dictionary["희귀"]; e.Tier != model.TierUnranked {
		t.Fatalf("expected missing level to be unranked, got %v", e.Tier)
	}
	if _, err := LoadDictionaryJSON(strings.NewReader(`{"x": {"def": "y", "level": "Z"}}`)); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoadInflectionsAndFrequency(t *testing.T) {
	infl, err := LoadInflectionsJSON(strings.NewReader(`{"먹었어": "먹다", "": "x"}`))
	if err != nil {
		t.Fatalf("LoadInflectionsJSON failed: %v", err)
	}
	if len(infl.Inflections) != 1 || infl.Inflections["먹었어"] != "먹다" {
		t.Fatalf("unexpected inflections: %v", infl.Inflections)
	}

	freq, err := LoadFrequencyTSV(strings.NewReader("# headword rank definition\n먹다\t12\tto eat|to consume\n가다\t3\n"))
	if err != nil {
		t.Fatalf("LoadFrequencyTSV failed: %v", err)
	}
	if f := freq.Frequency["먹다"]; f.Rank != 12 || f.Definition != "to eat, to consume" {
		t.Fatalf("unexpected frequency row: %+v", f)
	}
	if _, err := LoadFrequencyTSV(strings.NewReader("먹다\tabc\n")); err == nil {
		t.Fatalf("expected error for invalid rank")
	}

	merged := NewTables()
	merged.Merge(infl)
	merged.Merge(freq)
	merged.Merge(nil)
	if merged.Empty() || len(merged.Frequency) != 2 || len(merged.Inflections) != 1 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
	if !NewTables().Empty() {
		t.Fatalf("expected new tables to be empty")
	}
}
