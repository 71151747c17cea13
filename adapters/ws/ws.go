// Package ws implements flowgraph's real-time WebSocket source and sink
// adapters on top of gorilla/websocket.
package ws

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/coregx/flowgraph"
	"github.com/coregx/flowgraph/adapters/asyncio"
)

// DecodeFunc turns one inbound WebSocket message into a value.
type DecodeFunc[T any] func(data []byte) (T, error)

// EncodeFunc turns a value into an outbound WebSocket message.
type EncodeFunc[T any] func(value T) ([]byte, error)

// NewSource returns a RealTime-mode adapter node that reads messages from
// conn on a dedicated worker goroutine, decodes them with decode, and
// relays each as a tick. Built on asyncio.ChannelSource so the connection
// worker participates in the same supervised-goroutine, notifier-driven
// bridge every other async adapter uses.
func NewSource[T any](conn *websocket.Conn, decode DecodeFunc[T]) *asyncio.ChannelSource[T] {
	return asyncio.NewChannelSource[T](16, func(ctx context.Context, emit asyncio.Emitter[T]) error {
		done := make(chan struct{})
		go func() {
			<-ctx.Done()
			conn.Close()
			close(done)
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					return errors.Wrap(err, "flowgraph/adapters/ws: read")
				}
				return nil
			}
			v, err := decode(data)
			if err != nil {
				return errors.Wrap(err, "flowgraph/adapters/ws: decode")
			}
			if err := emit.Send(ctx, flowgraph.RealtimeValue(v)); err != nil {
				return nil
			}
		}
	})
}

// Sink writes every tick of upstream to conn as one WebSocket text message.
type Sink[T any] struct {
	conn     *websocket.Conn
	upstream flowgraph.Stream[T]
	encode   EncodeFunc[T]
}

// NewSink returns a Sink writing upstream's ticks to conn via encode.
func NewSink[T any](conn *websocket.Conn, upstream flowgraph.Stream[T], encode EncodeFunc[T]) *Sink[T] {
	return &Sink[T]{conn: conn, upstream: upstream, encode: encode}
}

func (s *Sink[T]) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep(s.upstream))
}

func (s *Sink[T]) Setup(*flowgraph.GraphState) error { return nil }
func (s *Sink[T]) Start(*flowgraph.GraphState) error { return nil }

func (s *Sink[T]) Cycle(state *flowgraph.GraphState) (bool, error) {
	if !state.Ticked(s.upstream) {
		return false, nil
	}
	data, err := s.encode(s.upstream.Peek())
	if err != nil {
		return false, errors.Wrap(err, "flowgraph/adapters/ws: encode")
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false, errors.Wrap(err, "flowgraph/adapters/ws: write")
	}
	return false, nil
}

func (s *Sink[T]) Stop(*flowgraph.GraphState) error { return nil }

func (s *Sink[T]) Teardown(*flowgraph.GraphState) error {
	return errors.Wrap(s.conn.Close(), "flowgraph/adapters/ws: close")
}
