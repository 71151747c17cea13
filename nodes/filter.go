package nodes

import "github.com/coregx/flowgraph"

// Filter passes through its value upstream's ticks for which the
// condition stream currently peeks true. The value upstream is always an
// active dependency; the condition stream may be either, matching
// whichever a caller's graph needs — see NewFilter and NewFilterPassive.
type Filter[T any] struct {
	value      flowgraph.Stream[T]
	condition  flowgraph.Stream[bool]
	condActive bool
	current    T
}

// NewFilter builds a Filter whose condition stream is an active
// dependency: the condition's own tick also re-evaluates the filter (it
// only emits when the value ticked in the same cycle, since Cycle checks
// state.Ticked(value) below).
func NewFilter[T any](value flowgraph.Stream[T], condition flowgraph.Stream[bool]) *Filter[T] {
	return &Filter[T]{value: value, condition: condition, condActive: true}
}

// NewFilterPassive builds a Filter whose condition stream is a passive
// dependency: only the value stream's ticks drive re-evaluation.
func NewFilterPassive[T any](value flowgraph.Stream[T], condition flowgraph.Stream[bool]) *Filter[T] {
	return &Filter[T]{value: value, condition: condition, condActive: false}
}

func (f *Filter[T]) Upstreams() flowgraph.UpStreams {
	condDep := flowgraph.AnyDep(flowgraph.PassiveDep(f.condition))
	if f.condActive {
		condDep = flowgraph.ActiveDep(f.condition)
	}
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(f.value), condDep)
}

func (f *Filter[T]) Setup(*flowgraph.GraphState) error { return nil }
func (f *Filter[T]) Start(*flowgraph.GraphState) error { return nil }

func (f *Filter[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(f.value) {
		return false, nil
	}
	if !f.condition.Peek() {
		return false, nil
	}
	f.current = f.value.Peek()
	return true, nil
}

func (f *Filter[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (f *Filter[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the last value that passed the filter.
func (f *Filter[T]) Peek() T { return f.current }
