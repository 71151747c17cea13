package nodes

import "github.com/coregx/flowgraph"

// Merge declares N active upstreams of the same type and, on cycle, adopts
// the value of the first upstream that ticked this cycle in declaration
// order: first-ready-wins rather than fanning out a slice of all ticked
// values.
type Merge[T any] struct {
	ups   []flowgraph.Stream[T]
	value T
}

// NewMerge returns a Merge over the given upstreams, declared active in
// the order given; Cycle prefers the earliest one that ticked.
func NewMerge[T any](ups ...flowgraph.Stream[T]) *Merge[T] {
	return &Merge[T]{ups: ups}
}

func (m *Merge[T]) Upstreams() flowgraph.UpStreams {
	deps := make([]flowgraph.AnyDep, len(m.ups))
	for i, u := range m.ups {
		deps[i] = flowgraph.ActiveDep(u)
	}
	return flowgraph.BuildUpStreams(deps...)
}

func (m *Merge[T]) Setup(*flowgraph.GraphState) error { return nil }
func (m *Merge[T]) Start(*flowgraph.GraphState) error { return nil }

func (m *Merge[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	for _, u := range m.ups {
		if state.Ticked(u) {
			m.value = u.Peek()
			return true, nil
		}
	}
	return false, nil
}

func (m *Merge[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (m *Merge[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the value adopted from the last upstream to win a merge.
func (m *Merge[T]) Peek() T { return m.value }
