// Package session drives gloss lookup in step with playback.
package session

import (
	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/rank"
	"github.com/verte-zerg/kovocab/internal/tokenize"
)

// Pipeline turns block content into displayable words.
type Pipeline struct {
	resolver *lexicon.Resolver
	ranker   *rank.Ranker
}

// NewPipeline builds a pipeline over read-only tables.
func NewPipeline(tables *lexicon.Tables, cfg model.Config) *Pipeline {
	if tables == nil {
		tables = lexicon.NewTables()
	}
	return &Pipeline{
		resolver: lexicon.NewResolver(tables, cfg.CacheSize),
		ranker: rank.New(tables, rank.Options{
			MinTier: cfg.MinTier,
			Exclude: cfg.Exclude,
			Cutoffs: cfg.RankCutoffs,
		}),
	}
}

// Run tokenizes content, resolves each token and filters the result.
func (p *Pipeline) Run(content string) []model.Word {
	tokens := tokenize.Tokenize(content)
	resolved := make([]model.Word, 0, len(tokens))
	for _, token := range tokens {
		if w, ok := p.resolver.Resolve(token); ok {
			resolved = append(resolved, w)
		}
	}
	return p.ranker.Filter(resolved)
}

// Resolve looks up a single token and ranks it.
func (p *Pipeline) Resolve(token string) (model.Word, bool) {
	w, ok := p.resolver.Resolve(token)
	if !ok {
		return model.Word{}, false
	}
	return p.ranker.Apply(w)
}
