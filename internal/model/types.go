// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
)

// Tier is an ordinal learner-difficulty level derived from word frequency.
type Tier int

// Tiers in ascending difficulty. Unranked words appear in no frequency list
// and sort after D.
const (
	TierA Tier = iota
	TierB
	TierC
	TierD
	TierUnranked
)

// String returns the display label of the tier.
func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	case TierC:
		return "C"
	case TierD:
		return "D"
	default:
		return "unranked"
	}
}

// ParseTier parses "A".."D" or "unranked". Empty input is unranked.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return TierA, nil
	case "b":
		return TierB, nil
	case "c":
		return TierC, nil
	case "d":
		return TierD, nil
	case "", "unranked", "-":
		return TierUnranked, nil
	default:
		return TierUnranked, fmt.Errorf("unknown tier %q (want A, B, C, D or unranked)", s)
	}
}

// Entry is a dictionary entry keyed by headword.
type Entry struct {
	Headword   string
	Definition string
	Tier       Tier
}

// FrequencyEntry is a row of the high-priority frequency table.
type FrequencyEntry struct {
	Headword   string
	Rank       int
	Definition string
}

// Word is a subtitle token resolved to a dictionary entry.
type Word struct {
	Surface    string
	Headword   string
	Definition string
	Tier       Tier
}

// Config defines gloss display settings.
type Config struct {
	MinTier     Tier
	PollMs      int
	Exclude     []string
	RankCutoffs []int
	CacheSize   int
	DBPath      string
}
