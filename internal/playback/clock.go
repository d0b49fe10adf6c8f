// Package playback provides a local playback position for subtitle sessions.
package playback

import (
	"sync"
	"time"
)

// Clock is a pausable, seekable playback position driven by wall time.
// It is safe for concurrent use.
type Clock struct {
	mu       sync.Mutex
	now      func() time.Time
	base     float64
	resumed  time.Time
	paused   bool
	duration float64
}

// NewClock returns a running clock at position zero. duration caps the
// position; zero means unbounded.
func NewClock(duration float64) *Clock {
	return newClock(time.Now, duration)
}

func newClock(now func() time.Time, duration float64) *Clock {
	return &Clock{now: now, resumed: now(), duration: duration}
}

// Position returns the current position in seconds.
func (c *Clock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *Clock) position() float64 {
	pos := c.base
	if !c.paused {
		pos += c.now().Sub(c.resumed).Seconds()
	}
	return c.clamp(pos)
}

func (c *Clock) clamp(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if c.duration > 0 && pos > c.duration {
		return c.duration
	}
	return pos
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Toggle pauses a running clock or resumes a paused one.
func (c *Clock) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.position()
	c.resumed = c.now()
	c.paused = !c.paused
}

// Seek moves the position by delta seconds.
func (c *Clock) Seek(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.clamp(c.position() + delta)
	c.resumed = c.now()
}

// Set jumps to an absolute position.
func (c *Clock) Set(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.clamp(pos)
	c.resumed = c.now()
}

// Duration returns the position cap.
func (c *Clock) Duration() float64 {
	return c.duration
}
