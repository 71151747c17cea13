package flowgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, nodes []Node) (*Graph, *GraphState) {
	t.Helper()
	g, err := NewGraph(nodes, GraphOptions{Mode: HistoricalFrom(0), For: RunForNCycles(0)})
	require.NoError(t, err)
	return g, g.state
}

func TestGraphState_AddCallbackPanicsOutsideLifecycle(t *testing.T) {
	_, state := newTestState(t, []Node{&testNode{}})

	require.Panics(t, func() { state.AddCallback(10) })
	require.Panics(t, func() { state.AlwaysCallback() })
	require.Panics(t, func() { state.ReadyNotifier() })
}

func TestGraphState_TickedUnknownNodeIsFalse(t *testing.T) {
	known := &testNode{}
	_, state := newTestState(t, []Node{known})

	outsider := &testNode{}
	require.False(t, state.Ticked(outsider))
}

func TestGraphState_IndexOf(t *testing.T) {
	a := &testNode{name: "a"}
	b := &testNode{name: "b", ups: BuildUpStreams(activeNodeDep(a))}
	_, state := newTestState(t, []Node{b})

	idxA, ok := state.IndexOf(a)
	require.True(t, ok)
	idxB, ok := state.IndexOf(b)
	require.True(t, ok)
	require.NotEqual(t, idxA, idxB)

	_, ok = state.IndexOf(&testNode{})
	require.False(t, ok)
}

func TestGraphState_MarkDirtyOutOfRangeIsNoOp(t *testing.T) {
	_, state := newTestState(t, []Node{&testNode{}})

	state.MarkDirty(-1)
	state.MarkDirty(99)
	require.Empty(t, state.dirtyBuckets[0])
}

func TestGraphState_CurrentNodeIndexDuringLifecycle(t *testing.T) {
	var seen []int
	n := &testNode{
		onSetup: func(s *GraphState) error {
			idx, ok := s.CurrentNodeIndex()
			require.True(t, ok)
			seen = append(seen, idx)
			return nil
		},
	}
	g, err := NewGraph([]Node{n}, GraphOptions{Mode: HistoricalFrom(0), For: RunForNCycles(0)})
	require.NoError(t, err)
	require.NoError(t, g.Run())

	require.Equal(t, []int{0}, seen)

	_, ok := g.state.CurrentNodeIndex()
	require.False(t, ok)
}

func TestGraphState_AlwaysCallbackIsIdempotentPerNode(t *testing.T) {
	n := &testNode{
		onStart: func(s *GraphState) error {
			s.AlwaysCallback()
			s.AlwaysCallback()
			return nil
		},
	}
	g, err := NewGraph([]Node{n}, GraphOptions{Mode: HistoricalFrom(0), For: RunForNCycles(1)})
	require.NoError(t, err)
	require.NoError(t, g.Run())

	require.Len(t, g.state.alwaysCallbacks, 1)
	require.Equal(t, 1, n.cycleCalls)
}
