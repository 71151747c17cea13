package asyncio

import (
	"context"
	"testing"
	"time"

	"github.com/coregx/flowgraph"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestChannelSource_RealTimeNotifierDelivery pushes one value every 10ms from a
// worker goroutine and checks the engine observes a wall-clock-plausible
// number of ticks within a 50ms run, then shuts the worker down cleanly.
func TestChannelSource_RealTimeNotifierDelivery(t *testing.T) {
	src := NewChannelSource[int](4, func(ctx context.Context, emit Emitter[int]) error {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		n := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n++
				if err := emit.Send(ctx, flowgraph.RealtimeValue(n)); err != nil {
					return nil
				}
			}
		}
	})

	var tickCount int
	rec := &recorderNode{upstream: src, onTick: func() { tickCount++ }}

	g, err := flowgraph.NewGraph([]flowgraph.Node{rec}, flowgraph.GraphOptions{
		Mode: flowgraph.RealTime(),
		For:  flowgraph.RunForDurationOf(50 * time.Millisecond),
	})
	require.NoError(t, err)
	require.NoError(t, g.Run())

	require.GreaterOrEqual(t, tickCount, 3)
	require.LessOrEqual(t, tickCount, 8)
	require.True(t, src.Ended(), "Stop should finalize the source so Ended reports true before Teardown joins the worker")
}

type recorderNode struct {
	upstream *ChannelSource[int]
	onTick   func()
}

func (r *recorderNode) Upstreams() flowgraph.UpStreams {
	return flowgraph.BuildUpStreams(flowgraph.ActiveDep[int](r.upstream))
}
func (r *recorderNode) Setup(*flowgraph.GraphState) error { return nil }
func (r *recorderNode) Start(*flowgraph.GraphState) error { return nil }
func (r *recorderNode) Cycle(state *flowgraph.GraphState) (bool, error) {
	if state.Ticked(r.upstream) {
		r.onTick()
	}
	return false, nil
}
func (r *recorderNode) Stop(*flowgraph.GraphState) error     { return nil }
func (r *recorderNode) Teardown(*flowgraph.GraphState) error { return nil }
