package nodes

import "github.com/coregx/flowgraph"

// Combine2 joins two active upstreams of possibly different types,
// re-evaluating fn against both current peeks whenever either ticks.
// Unlike Merge, both upstreams always contribute — this is a join, not a
// fan-in — so fn sees a consistent (A, B) pair even when only one side
// ticked this cycle.
type Combine2[A, B, T any] struct {
	a  flowgraph.Stream[A]
	b  flowgraph.Stream[B]
	fn func(A, B) T

	value T
}

// NewCombine2 returns a Combine2 computing fn(a.Peek(), b.Peek()) whenever
// a or b ticks.
func NewCombine2[A, B, T any](a flowgraph.Stream[A], b flowgraph.Stream[B], fn func(A, B) T) *Combine2[A, B, T] {
	return &Combine2[A, B, T]{a: a, b: b, fn: fn}
}

func (c *Combine2[A, B, T]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(c.a), flowgraph.ActiveDep(c.b))
}

func (c *Combine2[A, B, T]) Setup(*flowgraph.GraphState) error { return nil }
func (c *Combine2[A, B, T]) Start(*flowgraph.GraphState) error { return nil }

func (c *Combine2[A, B, T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(c.a) && !state.Ticked(c.b) {
		return false, nil
	}
	c.value = c.fn(c.a.Peek(), c.b.Peek())
	return true, nil
}

func (c *Combine2[A, B, T]) Stop(*flowgraph.GraphState) error     { return nil }
func (c *Combine2[A, B, T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the most recently combined value.
func (c *Combine2[A, B, T]) Peek() T { return c.value }
