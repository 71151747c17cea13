// Package asyncio bridges worker goroutines to the synchronous scheduler:
// a spawned task pushes flowgraph.Message[T] values onto a bounded channel
// and wakes the engine through a flowgraph.ReadyNotifier. Supervision
// (spawn, propagate the first error, join on teardown) is
// golang.org/x/sync/errgroup.
package asyncio

import (
	"context"

	"github.com/coregx/flowgraph"
	"golang.org/x/sync/errgroup"
)

// Group supervises a set of worker goroutines sharing one cancellation
// context and one first-error result.
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGroup returns a Group derived from parent, ready to spawn workers.
func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	eg, ctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: ctx, cancel: cancel}
}

// Context returns the group's cancellation context: workers should select
// on Done() to exit promptly when Cancel is called or a sibling fails.
func (g *Group) Context() context.Context { return g.ctx }

// Go spawns fn under the group's supervision.
func (g *Group) Go(fn func() error) { g.eg.Go(fn) }

// Cancel signals every worker to stop.
func (g *Group) Cancel() { g.cancel() }

// Wait blocks until every worker has returned and reports the first
// non-nil error, if any.
func (g *Group) Wait() error { return g.eg.Wait() }

// Emitter is the handle a worker goroutine uses to hand values back to the
// engine: push a message, then Notify to wake the scheduler.
type Emitter[T any] struct {
	ch       chan<- flowgraph.Message[T]
	notifier flowgraph.ReadyNotifier
}

// Send delivers msg to the engine and wakes it. It respects ctx
// cancellation so a worker can exit instead of blocking forever against a
// full channel after the engine has stopped consuming.
func (e Emitter[T]) Send(ctx context.Context, msg flowgraph.Message[T]) error {
	select {
	case e.ch <- msg:
		e.notifier.Notify()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChannelSource is a RealTime-mode adapter node: it spawns a worker via
// Spawn and relays every flowgraph.Message[T] it emits into the scheduler
// as a tick, implementing flowgraph.Stream[T]. Historical messages are
// accepted but, since ChannelSource never advances engine time itself
// (only a worker running in RealTime mode should own a live channel), are
// treated as an immediate tick at the current engine time; the timestamp
// recorded on the message is ignored.
type ChannelSource[T any] struct {
	bufSize int
	spawn   func(ctx context.Context, emit Emitter[T]) error

	group *Group
	ch    chan flowgraph.Message[T]

	value T
	ended bool
}

// NewChannelSource returns a ChannelSource that, on Start, spawns one
// worker goroutine running spawn. spawn must return when its context is
// cancelled.
func NewChannelSource[T any](bufSize int, spawn func(ctx context.Context, emit Emitter[T]) error) *ChannelSource[T] {
	return &ChannelSource[T]{bufSize: bufSize, spawn: spawn}
}

func (s *ChannelSource[T]) Upstreams() flowgraph.UpStreams    { return flowgraph.UpStreams{} }
func (s *ChannelSource[T]) Setup(*flowgraph.GraphState) error { return nil }

func (s *ChannelSource[T]) Start(state *flowgraph.GraphState) error {
	s.ch = make(chan flowgraph.Message[T], s.bufSize)
	s.group = NewGroup(context.Background())
	notifier := state.ReadyNotifier()

	emit := Emitter[T]{ch: s.ch, notifier: notifier}
	s.group.Go(func() error { return s.spawn(s.group.Context(), emit) })

	return nil
}

func (s *ChannelSource[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	ticked := false
	for {
		select {
		case msg := <-s.ch:
			switch msg.Kind {
			case flowgraph.RealtimeValueKind:
				s.value = msg.Value
				ticked = true
			case flowgraph.HistoricalValueKind:
				s.value = msg.TimedValue.Value
				ticked = true
			case flowgraph.CheckPointKind:
				// no value change; lets a slow worker still advance
				// real-time wall-clock waits via Notify.
			case flowgraph.EndOfStreamKind:
				s.ended = true
			}
			continue
		default:
		}
		break
	}
	return ticked, nil
}

func (s *ChannelSource[T]) Stop(*flowgraph.GraphState) error {
	if s.ch != nil {
		select {
		case s.ch <- flowgraph.EndOfStreamMessage[T]():
		default:
		}
	}
	if s.group != nil {
		s.group.Cancel()
	}
	s.ended = true
	return nil
}

func (s *ChannelSource[T]) Teardown(*flowgraph.GraphState) error {
	if s.group == nil {
		return nil
	}
	return s.group.Wait()
}

// Peek returns the most recently received value.
func (s *ChannelSource[T]) Peek() T { return s.value }

// Ended reports whether the stream has ended, either because the worker
// sent EndOfStreamKind itself or because Stop finalized the source.
func (s *ChannelSource[T]) Ended() bool { return s.ended }
