package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "lexicon.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestImportAndLoadTables(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	tables := lexicon.NewTables()
	tables.Dictionary["가다"] = model.Entry{Headword: "가다", Definition: "to go", Tier: model.TierA}
	tables.Dictionary["희귀"] = model.Entry{Headword: "희귀", Definition: "rare", Tier: model.TierUnranked}
	tables.Inflections["갔어"] = "가다"
	tables.Frequency["가다"] = model.FrequencyEntry{Headword: "가다", Rank: 15, Definition: "go"}

	counts, err := st.ImportTables(ctx, tables)
	if err != nil {
		t.Fatalf("ImportTables failed: %v", err)
	}
	if counts != (Counts{Entries: 2, Inflections: 1, Frequency: 1}) {
		t.Fatalf("unexpected import counts: %+v", counts)
	}

	loaded, err := st.LoadTables(ctx)
	if err != nil {
		t.Fatalf("LoadTables failed: %v", err)
	}
	if loaded.Dictionary["가다"] != tables.Dictionary["가다"] {
		t.Fatalf("unexpected entry: %+v", loaded.Dictionary["가다"])
	}
	if loaded.Dictionary["희귀"].Tier != model.TierUnranked {
		t.Fatalf("expected unranked tier to round trip")
	}
	if loaded.Inflections["갔어"] != "가다" {
		t.Fatalf("unexpected inflections: %v", loaded.Inflections)
	}
	if loaded.Frequency["가다"].Rank != 15 {
		t.Fatalf("unexpected frequency: %+v", loaded.Frequency["가다"])
	}
}

func TestImportFrequencyKeepsDefinitions(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.ImportFrequency(ctx, []model.FrequencyEntry{{Headword: "먹다", Rank: 40, Definition: "to eat"}}); err != nil {
		t.Fatalf("ImportFrequency failed: %v", err)
	}
	if _, err := st.ImportFrequency(ctx, []model.FrequencyEntry{{Headword: "먹다", Rank: 42}, {Headword: "자다", Rank: 90}}); err != nil {
		t.Fatalf("ImportFrequency failed: %v", err)
	}

	loaded, err := st.LoadTables(ctx)
	if err != nil {
		t.Fatalf("LoadTables failed: %v", err)
	}
	if f := loaded.Frequency["먹다"]; f.Rank != 42 || f.Definition != "to eat" {
		t.Fatalf("expected rank update with kept definition, got %+v", f)
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Frequency != 2 || counts.Entries != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lexicon.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	tables := lexicon.NewTables()
	tables.Inflections["봤어"] = "보다"
	if _, err := st.ImportTables(ctx, tables); err != nil {
		t.Fatalf("ImportTables failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Inflections != 1 {
		t.Fatalf("expected inflection to persist, got %+v", counts)
	}
}
