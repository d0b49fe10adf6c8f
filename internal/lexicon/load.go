package lexicon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/kovocab/internal/model"
)

type rawEntry struct {
	Defs       string         `json:"defs"`
	Def        string         `json:"def"`
	Definition string         `json:"definition"`
	Level      string         `json:"level"`
	Tier       string         `json:"tier"`
	Roots      map[string]any `json:"roots"`
}

// LoadDictionaryJSON reads an object keyed by word. Each value carries a
// definition (senses separated by "|"), a level, and optional roots. A value
// without a definition but with roots becomes an inflection of its first root.
func LoadDictionaryJSON(r io.Reader) (*Tables, error) {
	var raw map[string]rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode dictionary: %w", err)
	}

	tables := NewTables()
	for word, value := range raw {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		def := firstNonEmpty(value.Defs, value.Definition, value.Def)
		if def == "" {
			if root := firstRoot(value.Roots); root != "" {
				tables.Inflections[word] = root
			}
			continue
		}
		tier, err := model.ParseTier(firstNonEmpty(value.Tier, value.Level))
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", word, err)
		}
		tables.Dictionary[word] = model.Entry{
			Headword:   word,
			Definition: joinSenses(def),
			Tier:       tier,
		}
	}
	return tables, nil
}

// LoadInflectionsJSON reads an object mapping conjugated forms to headwords.
func LoadInflectionsJSON(r io.Reader) (*Tables, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode inflection index: %w", err)
	}
	tables := NewTables()
	for surface, headword := range raw {
		surface = strings.TrimSpace(surface)
		headword = strings.TrimSpace(headword)
		if surface == "" || headword == "" {
			continue
		}
		tables.Inflections[surface] = headword
	}
	return tables, nil
}

// LoadFrequencyTSV reads "headword<TAB>rank[<TAB>definition]" rows.
func LoadFrequencyTSV(r io.Reader) (*Tables, error) {
	tables := NewTables()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return nil, fmt.Errorf("line %d: expected headword and rank", lineNo)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil || rank <= 0 {
			return nil, fmt.Errorf("line %d: invalid rank %q", lineNo, cols[1])
		}
		entry := model.FrequencyEntry{Headword: strings.TrimSpace(cols[0]), Rank: rank}
		if entry.Headword == "" {
			continue
		}
		if len(cols) > 2 {
			entry.Definition = joinSenses(strings.TrimSpace(cols[2]))
		}
		tables.Frequency[entry.Headword] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read frequency table: %w", err)
	}
	return tables, nil
}

func joinSenses(def string) string {
	parts := strings.Split(def, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func firstRoot(roots map[string]any) string {
	if len(roots) == 0 {
		return ""
	}
	keys := make([]string, 0, len(roots))
	for k := range roots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
