// Package search coalesces keystrokes into throttled catalog queries.
// One scheduled slot: each new input replaces the armed timer, so a
// burst of keystrokes inside the window costs one request, for the last
// text seen. Responses are sequence-checked so a slow old request can
// never clobber a newer result.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/Dhwanith/qkart/internal/catalog"
)

const DefaultWindow = 500 * time.Millisecond

// Result is a search outcome delivered to the apply callback.
type Result struct {
	Text     string
	Products []catalog.Product
}

// Source issues the actual catalog query. It never errors; failures
// surface as an empty product list (see catalog.Source).
type Source interface {
	Search(ctx context.Context, text string) []catalog.Product
}

type Coordinator struct {
	source Source
	window time.Duration
	apply  func(Result)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	cancel  context.CancelFunc
	stopped bool
}

// NewCoordinator wires a debounced search over source. apply is invoked
// from the timer goroutine; callers needing loop affinity should hand in
// something thread-safe (the TUI uses tea.Program.Send).
func NewCoordinator(source Source, window time.Duration, apply func(Result)) *Coordinator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Coordinator{source: source, window: window, apply: apply}
}

// Input records the current full search text. Any armed timer is
// cancelled and a new one armed for the debounce window carrying this
// latest text.
func (c *Coordinator) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() { c.fire(text) })
}

// Stop cancels the armed timer and any in-flight request. Further Input
// calls are ignored.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Coordinator) fire(text string) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.seq++
	id := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	products := c.source.Search(ctx, text)

	c.mu.Lock()
	stale := c.stopped || id != c.seq
	c.mu.Unlock()
	if stale {
		return
	}
	c.apply(Result{Text: text, Products: products})
}
