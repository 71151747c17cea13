package nodes

import (
	"time"

	"github.com/coregx/flowgraph"
)

// Delay re-emits its upstream's ticked values after a fixed delay,
// buffering pending emissions in an internal flowgraph.TimeQueue[T] and
// re-arming flowgraph.GraphState.AddCallback for the earliest pending
// entry. The WithReset variant additionally lets a trigger stream clear
// the pending queue mid-cycle, snapping the delay back to empty without
// emitting the cleared entries (circuit-breaker style feedback).
type Delay[T any] struct {
	upstream flowgraph.Stream[T]
	trigger  flowgraph.Stream[bool] // nil unless built via NewDelayWithReset
	delay    time.Duration

	queue   *flowgraph.TimeQueue[T]
	current T
}

// NewDelay returns a Delay that re-emits upstream's value `delay` after it
// ticks, with no reset trigger.
func NewDelay[T any](upstream flowgraph.Stream[T], delay time.Duration) *Delay[T] {
	return &Delay[T]{upstream: upstream, delay: delay, queue: flowgraph.NewTimeQueue[T]()}
}

// NewDelayWithReset returns a Delay that additionally watches trigger: when
// trigger ticks with a true value, the pending queue is cleared in that same
// cycle and the delay immediately snaps to upstream's current value.
func NewDelayWithReset[T any](upstream flowgraph.Stream[T], delay time.Duration, trigger flowgraph.Stream[bool]) *Delay[T] {
	return &Delay[T]{upstream: upstream, trigger: trigger, delay: delay, queue: flowgraph.NewTimeQueue[T]()}
}

func (d *Delay[T]) Upstreams() flowgraph.UpStreams {
	if d.trigger == nil {
		return flowgraph.BuildUpStreams(flowgraph.ActiveDep(d.upstream))
	}
	return flowgraph.BuildUpStreams(
		flowgraph.ActiveDep(d.upstream),
		flowgraph.ActiveDep(d.trigger),
	)
}

func (d *Delay[T]) Setup(*flowgraph.GraphState) error { return nil }
func (d *Delay[T]) Start(*flowgraph.GraphState) error { return nil }

func (d *Delay[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	ticked := false

	if d.trigger != nil && state.Ticked(d.trigger) && d.trigger.Peek() {
		d.queue.Clear()
		d.current = d.upstream.Peek()
		return true, nil
	}

	if state.Ticked(d.upstream) {
		d.queue.Push(d.upstream.Peek(), state.Time().AddDuration(d.delay))
	}

	due := d.queue.DrainDue(state.Time())
	if len(due) > 0 {
		d.current = due[len(due)-1].Value
		ticked = true
	}

	if !d.queue.IsEmpty() {
		state.AddCallback(d.queue.NextTime())
	}

	return ticked, nil
}

func (d *Delay[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (d *Delay[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the most recently emitted delayed value.
func (d *Delay[T]) Peek() T { return d.current }
