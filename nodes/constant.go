package nodes

import "github.com/coregx/flowgraph"

// Constant ticks exactly once, at the first cycle, with a fixed value
// that never changes afterward. Useful as a baseline input in scenario
// graphs that otherwise need a source.
type Constant[T any] struct {
	value   T
	emitted bool
}

// NewConstant returns a Constant that emits value on the first cycle.
func NewConstant[T any](value T) *Constant[T] {
	return &Constant[T]{value: value}
}

func (c *Constant[T]) Upstreams() flowgraph.UpStreams    { return flowgraph.UpStreams{} }
func (c *Constant[T]) Setup(*flowgraph.GraphState) error { return nil }

func (c *Constant[T]) Start(state *flowgraph.GraphState) error {
	state.AddCallback(state.Time())
	return nil
}

func (c *Constant[T]) Cycle(*flowgraph.GraphState) (bool, error) {
	if c.emitted {
		return false, nil
	}
	c.emitted = true
	return true, nil
}

func (c *Constant[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (c *Constant[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the constant value.
func (c *Constant[T]) Peek() T { return c.value }
