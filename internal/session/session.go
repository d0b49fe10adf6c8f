package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/subtitle"
)

// DefaultInterval is the default polling interval.
const DefaultInterval = 100 * time.Millisecond

// ErrNoSubtitles is returned when the subtitle text contains no usable cue.
var ErrNoSubtitles = errors.New("no subtitle cues found")

// PositionProvider reports the current playback position in seconds.
type PositionProvider interface {
	Position() float64
}

// PositionFunc adapts a function to PositionProvider.
type PositionFunc func() float64

// Position implements PositionProvider.
func (f PositionFunc) Position() float64 { return f() }

// Update is emitted whenever the displayed block changes.
type Update struct {
	Block subtitle.Block
	Words []model.Word
}

// Options configures a session.
type Options struct {
	Interval time.Duration
	Config   model.Config
}

// Session polls a position provider and reports gloss updates.
type Session struct {
	poller   *Poller
	interval time.Duration
	dropped  int

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Start segments the subtitle text and begins polling. Nil tables degrade to
// an empty pipeline. onResult is called from the polling goroutine and never
// on ticks that change nothing.
func Start(ctx context.Context, subtitleText string, tables *lexicon.Tables, position PositionProvider, onResult func(Update), opts Options) (*Session, error) {
	blocks, dropped := subtitle.Segment(subtitleText)
	if len(blocks) == 0 {
		return nil, ErrNoSubtitles
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		poller:   NewPoller(blocks, NewPipeline(tables, opts.Config)),
		interval: interval,
		dropped:  dropped,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(ctx, position, onResult)
	return s, nil
}

func (s *Session) run(ctx context.Context, position PositionProvider, onResult func(Update)) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(position, onResult)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Session) tick(position PositionProvider, onResult func(Update)) {
	words, changed := s.poller.Tick(position.Position())
	if !changed || onResult == nil {
		return
	}
	block, _ := s.poller.Current()
	onResult(Update{Block: block, Words: words})
}

// Stop ends polling and waits for the loop to exit. It is safe to call more
// than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the polling loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Blocks returns the number of cues in the session.
func (s *Session) Blocks() int {
	return len(s.poller.Blocks())
}

// Dropped returns how many cues were discarded as malformed.
func (s *Session) Dropped() int {
	return s.dropped
}
