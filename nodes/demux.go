package nodes

import "github.com/coregx/flowgraph"

// Demux fans a single upstream out to N child slots plus one overflow
// slot, keyed by an arbitrary comparable key extracted from each tick.
// The first N distinct keys observed claim the N slots in order of
// appearance; any key beyond that lands in the overflow slot. Children
// declare the Demux as a passive upstream — they are woken only by the
// parent's explicit mark-dirty of their specific slot in the same cycle,
// never by the parent's own tick.
type Demux[T any, K comparable] struct {
	upstream flowgraph.Stream[T]
	keyFn    func(T) K

	slots    []*DemuxSlot[T]
	overflow *DemuxSlot[T]
	index    map[K]int
}

// NewDemux returns a Demux with n addressable slots, routing each tick of
// upstream to the slot assigned to keyFn's result.
func NewDemux[T any, K comparable](upstream flowgraph.Stream[T], n int, keyFn func(T) K) *Demux[T, K] {
	d := &Demux[T, K]{upstream: upstream, keyFn: keyFn, index: make(map[K]int, n)}
	d.slots = make([]*DemuxSlot[T], n)
	for i := range d.slots {
		d.slots[i] = &DemuxSlot[T]{parent: d}
	}
	d.overflow = &DemuxSlot[T]{parent: d}
	return d
}

// Slot returns the i-th child slot stream.
func (d *Demux[T, K]) Slot(i int) *DemuxSlot[T] { return d.slots[i] }

// Overflow returns the slot that receives ticks whose key doesn't fit the
// fixed slot allocation.
func (d *Demux[T, K]) Overflow() *DemuxSlot[T] { return d.overflow }

func (d *Demux[T, K]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(d.upstream))
}

func (d *Demux[T, K]) Setup(*flowgraph.GraphState) error { return nil }
func (d *Demux[T, K]) Start(*flowgraph.GraphState) error { return nil }

func (d *Demux[T, K]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(d.upstream) {
		return false, nil
	}
	v := d.upstream.Peek()
	slot := d.resolveSlot(d.keyFn(v))
	slot.value = v
	state.MarkDirtyNode(slot)
	return false, nil
}

func (d *Demux[T, K]) resolveSlot(k K) *DemuxSlot[T] {
	if idx, ok := d.index[k]; ok {
		return d.slots[idx]
	}
	if len(d.index) < len(d.slots) {
		idx := len(d.index)
		d.index[k] = idx
		return d.slots[idx]
	}
	return d.overflow
}

func (d *Demux[T, K]) Stop(*flowgraph.GraphState) error     { return nil }
func (d *Demux[T, K]) Teardown(*flowgraph.GraphState) error { return nil }

// DemuxSlot is one child stream of a Demux: a passive dependent that only
// ever ticks when its parent explicitly marks it dirty.
type DemuxSlot[T any] struct {
	parent flowgraph.Node
	value  T
}

func (s *DemuxSlot[T]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(passiveNodeDep{n: s.parent})
}

func (s *DemuxSlot[T]) Setup(*flowgraph.GraphState) error { return nil }
func (s *DemuxSlot[T]) Start(*flowgraph.GraphState) error { return nil }

func (s *DemuxSlot[T]) Cycle(*flowgraph.GraphState) (bool, error) { return true, nil }

func (s *DemuxSlot[T]) Stop(*flowgraph.GraphState) error     { return nil }
func (s *DemuxSlot[T]) Teardown(*flowgraph.GraphState) error { return nil }

// Peek returns the value most recently routed to this slot.
func (s *DemuxSlot[T]) Peek() T { return s.value }

// passiveNodeDep is a type-erased passive dependency on a plain Node,
// used where the upstream isn't itself a typed Stream[T] (the Demux
// parent has no single peekable value of its own).
type passiveNodeDep struct{ n flowgraph.Node }

func (d passiveNodeDep) Node() flowgraph.Node { return d.n }
func (d passiveNodeDep) IsActive() bool       { return false }
