package lexicon

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/verte-zerg/kovocab/internal/model"
)

// DefaultCacheSize is the default number of memoised tokens.
const DefaultCacheSize = 4096

// maxStrip is how many trailing runes may be removed from a token.
const maxStrip = 3

type result struct {
	word  model.Word
	found bool
}

// Resolver maps surface tokens to dictionary entries.
type Resolver struct {
	tables *Tables
	cache  *lru.Cache[string, result]
}

// NewResolver creates a resolver over read-only tables. A cacheSize of zero
// or less disables memoisation.
func NewResolver(tables *Tables, cacheSize int) *Resolver {
	if tables == nil {
		tables = NewTables()
	}
	r := &Resolver{tables: tables}
	if cacheSize > 0 {
		cache, err := lru.New[string, result](cacheSize)
		if err == nil {
			r.cache = cache
		}
	}
	return r
}

// Resolve finds the entry for token, trying the longest prefix first. For each
// prefix an exact headword wins over the inflection index.
func (r *Resolver) Resolve(token string) (model.Word, bool) {
	if r.cache != nil {
		if res, ok := r.cache.Get(token); ok {
			return res.word, res.found
		}
	}
	word, found := r.resolve(token)
	if r.cache != nil {
		r.cache.Add(token, result{word: word, found: found})
	}
	return word, found
}

func (r *Resolver) resolve(token string) (model.Word, bool) {
	runes := []rune(token)
	if len(runes) == 0 {
		return model.Word{}, false
	}
	for i := 0; i < attempts(len(runes)); i++ {
		prefix := string(runes[:len(runes)-i])
		if entry, ok := r.tables.Entry(prefix); ok {
			return wordFor(token, entry), true
		}
		if base, ok := r.tables.Base(prefix); ok {
			if entry, ok := r.tables.Entry(base); ok {
				return wordFor(token, entry), true
			}
		}
	}
	return model.Word{}, false
}

// attempts is the number of prefixes tried for a token of n runes: the full
// token plus up to maxStrip shorter ones, never shrinking below one rune.
func attempts(n int) int {
	return min(maxStrip+1, max(1, n-1))
}

func wordFor(surface string, entry model.Entry) model.Word {
	return model.Word{
		Surface:    surface,
		Headword:   entry.Headword,
		Definition: entry.Definition,
		Tier:       entry.Tier,
	}
}
