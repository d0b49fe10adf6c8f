// Package rank assigns frequency-derived difficulty tiers and filters
// resolved words for display.
package rank

import (
	"regexp"
	"strings"

	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"
)

// DefaultCutoffs are the highest ranks of tiers A through D.
var DefaultCutoffs = []int{800, 2000, 4000, 6000}

// DefaultExclusions are headwords the prefix search matches by coincidence
// far more often than it matches them correctly.
var DefaultExclusions = []string{"거", "게", "것", "나", "데", "때문", "수", "이", "저", "좀"}

var reParens = regexp.MustCompile(`\s*\([^)]*\)`)

// TierForRank maps a frequency rank to a tier using ascending cutoffs. Ranks
// past the last cutoff are unranked.
func TierForRank(rank int, cutoffs []int) model.Tier {
	if len(cutoffs) == 0 {
		cutoffs = DefaultCutoffs
	}
	for i, limit := range cutoffs {
		if i > int(model.TierD) {
			break
		}
		if rank <= limit {
			return model.Tier(i)
		}
	}
	return model.TierUnranked
}

// StripParens removes parenthetical notes from a definition.
func StripParens(def string) string {
	return strings.TrimSpace(reParens.ReplaceAllString(def, ""))
}

// Options configures a Ranker.
type Options struct {
	MinTier model.Tier
	Exclude []string
	Cutoffs []int
}

// Ranker overrides tiers from the frequency table and filters words.
type Ranker struct {
	tables  *lexicon.Tables
	minTier model.Tier
	exclude map[string]struct{}
	cutoffs []int
}

// New builds a ranker. DefaultExclusions always apply.
func New(tables *lexicon.Tables, opts Options) *Ranker {
	exclude := make(map[string]struct{}, len(DefaultExclusions)+len(opts.Exclude))
	for _, w := range DefaultExclusions {
		exclude[w] = struct{}{}
	}
	for _, w := range opts.Exclude {
		if w = strings.TrimSpace(w); w != "" {
			exclude[w] = struct{}{}
		}
	}
	cutoffs := opts.Cutoffs
	if len(cutoffs) == 0 {
		cutoffs = DefaultCutoffs
	}
	return &Ranker{tables: tables, minTier: opts.MinTier, exclude: exclude, cutoffs: cutoffs}
}

// Apply annotates w from the frequency table and reports whether it should
// be displayed.
func (r *Ranker) Apply(w model.Word) (model.Word, bool) {
	if _, ok := r.exclude[w.Headword]; ok {
		return model.Word{}, false
	}
	if freq, ok := r.tables.Rank(w.Headword); ok {
		w.Tier = TierForRank(freq.Rank, r.cutoffs)
		if freq.Definition != "" {
			w.Definition = freq.Definition
		} else {
			w.Definition = StripParens(w.Definition)
		}
	}
	if w.Tier < r.minTier {
		return model.Word{}, false
	}
	return w, true
}

// Filter applies Apply to every word and keeps the first word per headword.
func (r *Ranker) Filter(words []model.Word) []model.Word {
	out := make([]model.Word, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		ranked, ok := r.Apply(w)
		if !ok {
			continue
		}
		if _, dup := seen[ranked.Headword]; dup {
			continue
		}
		seen[ranked.Headword] = struct{}{}
		out = append(out, ranked)
	}
	return out
}
