package nodes

import "github.com/coregx/flowgraph"

// Map applies fn to upstream's value each time upstream ticks, re-emitting
// the transformed value as its own tick.
type Map[T, U any] struct {
	upstream flowgraph.Stream[T]
	fn       func(T) U
	value    U
}

// NewMap returns a Map node transforming upstream's ticks through fn.
func NewMap[T, U any](upstream flowgraph.Stream[T], fn func(T) U) *Map[T, U] {
	return &Map[T, U]{upstream: upstream, fn: fn}
}

func (m *Map[T, U]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(m.upstream))
}

func (m *Map[T, U]) Setup(*flowgraph.GraphState) error { return nil }
func (m *Map[T, U]) Start(*flowgraph.GraphState) error { return nil }

func (m *Map[T, U]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(m.upstream) {
		return false, nil
	}
	m.value = m.fn(m.upstream.Peek())
	return true, nil
}

func (m *Map[T, U]) Stop(*flowgraph.GraphState) error     { return nil }
func (m *Map[T, U]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the most recently mapped value.
func (m *Map[T, U]) Peek() U { return m.value }
