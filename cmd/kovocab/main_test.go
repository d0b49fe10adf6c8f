package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kovocab/internal/config"
	"github.com/verte-zerg/kovocab/internal/model"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestGlossFlagsResolveMergesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	excludePath := filepath.Join(dir, "exclude.txt")
	writeFile(t, excludePath, "# names\n민수\n")
	writeFile(t, filepath.Join(dir, "kovocab", "config.toml"), `[display]
min-tier = "C"
poll-ms = 50
exclude = ["좀"]
exclude-file = "`+excludePath+`"

[rank]
cutoffs = [10, 20]

[lexicon]
db = "/tmp/kovocab-test.db"
`)

	var f glossFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.Flags().Parse([]string{"--poll-ms=250"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.MinTier != model.TierC {
		t.Fatalf("expected min tier from config, got %v", cfg.MinTier)
	}
	if cfg.PollMs != 250 {
		t.Fatalf("expected flag to override config, got %d", cfg.PollMs)
	}
	if !reflect.DeepEqual(cfg.Exclude, []string{"좀", "민수"}) {
		t.Fatalf("unexpected exclusions: %v", cfg.Exclude)
	}
	if !reflect.DeepEqual(cfg.RankCutoffs, []int{10, 20}) {
		t.Fatalf("unexpected cutoffs: %v", cfg.RankCutoffs)
	}
	if cfg.DBPath != "/tmp/kovocab-test.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
}

func TestGlossFlagsResolveDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var f glossFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.MinTier != model.TierA || cfg.PollMs != defaultPollMs {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBPath != config.DefaultDBPath() {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{PollMs: 100, RankCutoffs: []int{800, 2000}}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	invalid := []model.Config{
		{PollMs: 0},
		{PollMs: 100, CacheSize: -1},
		{PollMs: 100, RankCutoffs: []int{2000, 800}},
		{PollMs: 100, RankCutoffs: []int{0}},
		{PollMs: 100, RankCutoffs: []int{1, 2, 3, 4, 5}},
	}
	for _, cfg := range invalid {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestParseStart(t *testing.T) {
	if pos, err := parseStart(""); err != nil || pos != 0 {
		t.Fatalf("expected zero start, got %v %v", pos, err)
	}
	if pos, err := parseStart("00:01:30.000"); err != nil || pos != 90 {
		t.Fatalf("expected 90s, got %v %v", pos, err)
	}
	if _, err := parseStart("later"); err == nil {
		t.Fatalf("expected error for malformed start")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, strings.Join(lines, "\n"))

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("uncommented template does not decode: %v", err)
	}
	if cfg.Display.MinTier == nil || *cfg.Display.MinTier != defaultMinTier {
		t.Fatalf("unexpected min tier: %+v", cfg.Display)
	}
	if len(cfg.Rank.Cutoffs) != 4 {
		t.Fatalf("unexpected cutoffs: %v", cfg.Rank.Cutoffs)
	}
}

func TestImportThenLookup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	dictPath := filepath.Join(dir, "dict.json")
	writeFile(t, dictPath, `{"가다": {"defs": "to go|to leave", "level": "A"}, "갔어": {"roots": {"가다": 1}}}`)
	dbPath := filepath.Join(dir, "lexicon.db")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"import", "--dict", dictPath, "--db", dbPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "imported 1 entries, 1 inflections") {
		t.Fatalf("unexpected import output: %s", out.String())
	}

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"lookup", "--db", dbPath, "갔어요"})
	if err := root.Execute(); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	for _, want := range []string{"Headword", "가다", "to go, to leave"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("lookup output missing %q: %s", want, out.String())
		}
	}
}

func TestAnnotateWithFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	dictPath := filepath.Join(dir, "dict.json")
	writeFile(t, dictPath, `{"사랑하다": {"def": "to love", "level": "B"}, "사랑해요": {"roots": {"사랑하다": 1}}}`)
	subsPath := filepath.Join(dir, "ep1.vtt")
	writeFile(t, subsPath, "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.000\n사랑해요\n\n2\n00:00:03.000 --> 00:00:04.000\n음...\n")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"annotate", "--dict", dictPath, "--width", "200", subsPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("annotate failed: %v", err)
	}
	for _, want := range []string{"00:00:01.000 --> 00:00:02.000  사랑해요", "사랑하다", "to love", "(no glosses)", "2 cues"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("annotate output missing %q: %s", want, out.String())
		}
	}
}
