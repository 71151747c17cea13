package flowgraph

import "container/heap"

// ValueAt pairs a value with the time it is scheduled for. Two samples with
// identical value but different times are distinct entries; two samples
// with identical value and time are also distinct entries and both survive
// in a TimeQueue (duplicates are never collapsed).
type ValueAt[T any] struct {
	Value T
	Time  NanoTime
}

// entry adds the insertion sequence a TimeQueue needs to keep push order
// stable among equal times, without that sequence leaking into ValueAt
// itself (ValueAt equality is value+time only).
type entry[T any] struct {
	v   ValueAt[T]
	seq uint64
}

// timeHeap is the container/heap.Interface implementation backing TimeQueue.
type timeHeap[T any] []*entry[T]

func (h timeHeap[T]) Len() int { return len(h) }

func (h timeHeap[T]) Less(i, j int) bool {
	if h[i].v.Time != h[j].v.Time {
		return h[i].v.Time < h[j].v.Time
	}
	return h[i].seq < h[j].seq
}

func (h timeHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timeHeap[T]) Push(x any) {
	*h = append(*h, x.(*entry[T]))
}

func (h *timeHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// TimeQueue is a min-priority queue of ValueAt[T] ordered by ascending
// time. Push is amortized O(log n); Pop, NextTime, Pending and IsEmpty are
// O(log n) or better. Duplicate (value, time) pairs coexist; ties among
// equal times are broken by insertion order.
type TimeQueue[T any] struct {
	h   timeHeap[T]
	seq uint64
}

// NewTimeQueue returns an empty TimeQueue.
func NewTimeQueue[T any]() *TimeQueue[T] {
	return &TimeQueue[T]{}
}

// Push schedules value for delivery at time t.
func (q *TimeQueue[T]) Push(value T, t NanoTime) {
	heap.Push(&q.h, &entry[T]{v: ValueAt[T]{Value: value, Time: t}, seq: q.seq})
	q.seq++
}

// Pop removes and returns the earliest-scheduled value. It is a contract
// violation to call Pop on an empty queue; callers must check IsEmpty
// first.
func (q *TimeQueue[T]) Pop() T {
	item := heap.Pop(&q.h).(*entry[T])
	return item.v.Value
}

// PopValueAt removes and returns the earliest entry with its timestamp.
func (q *TimeQueue[T]) PopValueAt() ValueAt[T] {
	item := heap.Pop(&q.h).(*entry[T])
	return item.v
}

// NextTime returns the time of the earliest-scheduled entry. It is a
// contract violation to call NextTime on an empty queue.
func (q *TimeQueue[T]) NextTime() NanoTime {
	return q.h[0].v.Time
}

// Pending reports whether the earliest-scheduled entry is due at or
// before now.
func (q *TimeQueue[T]) Pending(now NanoTime) bool {
	return len(q.h) > 0 && q.h[0].v.Time <= now
}

// IsEmpty reports whether the queue holds no entries.
func (q *TimeQueue[T]) IsEmpty() bool {
	return len(q.h) == 0
}

// Len returns the number of entries currently queued.
func (q *TimeQueue[T]) Len() int {
	return len(q.h)
}

// Clear discards all entries.
func (q *TimeQueue[T]) Clear() {
	q.h = nil
}

// DrainDue pops and returns, in time order, every entry due at or before
// now. The dispatcher's callback integration step uses this every cycle.
func (q *TimeQueue[T]) DrainDue(now NanoTime) []ValueAt[T] {
	var due []ValueAt[T]
	for q.Pending(now) {
		due = append(due, q.PopValueAt())
	}
	return due
}
