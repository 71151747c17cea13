package nodes

import "github.com/coregx/flowgraph"

// Always re-evaluates fn unconditionally on every cycle, regardless of
// upstream dirtying, via flowgraph.GraphState.AlwaysCallback. Useful for
// nodes whose value depends on engine time itself rather than on any
// upstream's tick.
type Always[T any] struct {
	fn    func(*flowgraph.GraphState) T
	value T
}

// NewAlways returns an Always node computing fn every cycle.
func NewAlways[T any](fn func(*flowgraph.GraphState) T) *Always[T] {
	return &Always[T]{fn: fn}
}

func (a *Always[T]) Upstreams() flowgraph.UpStreams    { return flowgraph.UpStreams{} }
func (a *Always[T]) Setup(*flowgraph.GraphState) error { return nil }

func (a *Always[T]) Start(state *flowgraph.GraphState) error {
	state.AlwaysCallback()
	return nil
}

func (a *Always[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	a.value = a.fn(state)
	return true, nil
}

func (a *Always[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (a *Always[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the value computed in the most recent cycle.
func (a *Always[T]) Peek() T { return a.value }
