package session

import (
	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/subtitle"
)

// State is the poller state.
type State int

const (
	// Idle means no block has been shown yet.
	Idle State = iota
	// Showing means a block's words are on display.
	Showing
)

func (s State) String() string {
	if s == Showing {
		return "showing"
	}
	return "idle"
}

// Poller maps playback positions to gloss updates. It is not safe for
// concurrent use; one goroutine owns it.
type Poller struct {
	blocks   []subtitle.Block
	pipeline *Pipeline
	current  int
}

// NewPoller creates an idle poller. blocks must be sorted by start time.
func NewPoller(blocks []subtitle.Block, pipeline *Pipeline) *Poller {
	return &Poller{blocks: blocks, pipeline: pipeline, current: -1}
}

// Tick samples one playback position. It returns the words to display and
// true only when the displayed block changes. Gaps between cues keep the
// previous display.
func (p *Poller) Tick(pos float64) ([]model.Word, bool) {
	if p.current >= 0 && p.blocks[p.current].Contains(pos) {
		return nil, false
	}
	idx, ok := subtitle.Locate(p.blocks, pos)
	if !ok || idx == p.current {
		return nil, false
	}
	p.current = idx
	return p.pipeline.Run(p.blocks[idx].Content), true
}

// State reports whether a block has been shown.
func (p *Poller) State() State {
	if p.current < 0 {
		return Idle
	}
	return Showing
}

// Current returns the block on display.
func (p *Poller) Current() (subtitle.Block, bool) {
	if p.current < 0 {
		return subtitle.Block{}, false
	}
	return p.blocks[p.current], true
}

// Blocks returns the block sequence the poller was built on.
func (p *Poller) Blocks() []subtitle.Block {
	return p.blocks
}
