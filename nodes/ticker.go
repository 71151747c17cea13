// Package nodes provides the concrete dataflow primitives built entirely
// on flowgraph's public contract: periodic sources, fan-in merge, filter,
// delay, demux, and a handful of small stream combinators.
package nodes

import (
	"time"

	"github.com/coregx/flowgraph"
)

// Ticker is a periodic source node: it fires once at the engine's start
// time and every period after that, emitting a monotonically increasing
// count. Every callback is computed from the start time (start + k*period)
// rather than from the time the previous cycle ran, so RealTime mode's
// schedule stays aligned with the engine's t0 instead of drifting.
type Ticker struct {
	period time.Duration
	count  int
	anchor flowgraph.NanoTime
}

// NewTicker returns a Ticker that fires every period, counting from 1.
func NewTicker(period time.Duration) *Ticker {
	return &Ticker{period: period}
}

func (t *Ticker) Upstreams() flowgraph.UpStreams    { return flowgraph.UpStreams{} }
func (t *Ticker) Setup(*flowgraph.GraphState) error { return nil }

func (t *Ticker) Start(state *flowgraph.GraphState) error {
	t.anchor = state.Time()
	state.AddCallback(t.anchor)
	return nil
}

func (t *Ticker) Cycle(state *flowgraph.GraphState) (bool, error) {
	t.count++
	state.AddCallback(t.anchor.AddDuration(time.Duration(t.count) * t.period))
	return true, nil
}

func (t *Ticker) Stop(*flowgraph.GraphState) error     { return nil }
func (t *Ticker) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the number of times the ticker has fired so far.
func (t *Ticker) Peek() int { return t.count }
