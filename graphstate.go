package flowgraph

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// noCurrentNode is the sentinel for GraphState.currentNodeIndex when no
// node lifecycle call is in progress.
const noCurrentNode = -1

// GraphState is the per-run mutable state a Graph exposes to every Node
// during its lifecycle calls. Fields are unexported;
// nodes interact with it only through the methods below. Except for the
// ready-notifier inbox (a channel, safe for concurrent use by worker
// goroutines), GraphState is mutated exclusively by the single engine
// goroutine that drives Graph.Run.
type GraphState struct {
	runID uuid.UUID

	time      NanoTime
	startTime NanoTime
	mode      RunMode
	runFor    RunFor

	scheduledCallbacks *TimeQueue[int]
	alwaysCallbacks    []int

	// layer[i] is node i's wiring layer, fixed after wiring.
	layer []int
	// nodeIndexOf maps a Node's identity to its wiring index, fixed
	// after wiring.
	nodeIndexOf map[Node]int

	// dirtyBuckets[layer] holds the node indices dirtied this cycle, in
	// the order they were marked; dirtySet dedupes MarkDirty within a
	// cycle.
	dirtyBuckets [][]int
	dirtySet     []bool

	// ticked[i] is true iff node i's Cycle returned true this cycle.
	ticked []bool

	currentNodeIndex int

	terminated bool
	result     error

	isLastCycle bool
	cycleCount  uint32

	notifyInbox chan int

	logger  *zap.Logger
	metrics *Metrics
}

func newGraphState(opts GraphOptions, nodeCount, maxLayer int, nodeIndexOf map[Node]int, layer []int) *GraphState {
	return &GraphState{
		runID:              uuid.New(),
		mode:               opts.Mode,
		runFor:             opts.For,
		scheduledCallbacks: NewTimeQueue[int](),
		layer:              layer,
		nodeIndexOf:        nodeIndexOf,
		dirtyBuckets:       make([][]int, maxLayer+1),
		dirtySet:           make([]bool, nodeCount),
		ticked:             make([]bool, nodeCount),
		currentNodeIndex:   noCurrentNode,
		notifyInbox:        make(chan int, opts.NotifierBufferSize),
		logger:             opts.Logger,
		metrics:            opts.Metrics,
	}
}

// RunID returns the unique identifier assigned to this run, for
// correlating log lines and metrics labels.
func (s *GraphState) RunID() uuid.UUID { return s.runID }

// Time returns the current engine time.
func (s *GraphState) Time() NanoTime { return s.time }

// Elapsed returns the time elapsed since the run started.
func (s *GraphState) Elapsed() NanoTime { return s.time.Sub(s.startTime) }

// StartTime returns the time fixed when the run began.
func (s *GraphState) StartTime() NanoTime { return s.startTime }

// RunMode returns the configured run mode.
func (s *GraphState) RunMode() RunMode { return s.mode }

// RunFor returns the configured termination condition.
func (s *GraphState) RunFor() RunFor { return s.runFor }

// IsLastCycle reports whether the dispatcher has decided the current
// cycle is the final one, letting sink nodes flush.
func (s *GraphState) IsLastCycle() bool { return s.isLastCycle }

// CycleCount returns the number of cycles completed so far this run.
func (s *GraphState) CycleCount() uint32 { return s.cycleCount }

// Logger returns the structured logger configured for this run.
func (s *GraphState) Logger() *zap.Logger { return s.logger }

// CurrentNodeIndex returns the index of the node whose lifecycle method is
// currently executing, and whether one is in progress.
func (s *GraphState) CurrentNodeIndex() (int, bool) {
	if s.currentNodeIndex == noCurrentNode {
		return 0, false
	}
	return s.currentNodeIndex, true
}

// IndexOf returns the wiring index assigned to n, and whether n is part of
// this graph.
func (s *GraphState) IndexOf(n Node) (int, bool) {
	idx, ok := s.nodeIndexOf[n]
	return idx, ok
}

// AddCallback schedules the currently-executing node for a cycle at time
// t. It panics if called outside a node lifecycle call (a programmer
// error, not a recoverable condition).
func (s *GraphState) AddCallback(t NanoTime) {
	idx, ok := s.CurrentNodeIndex()
	if !ok {
		panic("flowgraph: AddCallback called outside a node lifecycle call")
	}
	s.scheduledCallbacks.Push(idx, t)
}

// AlwaysCallback registers the currently-executing node for unconditional
// evaluation every cycle.
func (s *GraphState) AlwaysCallback() {
	idx, ok := s.CurrentNodeIndex()
	if !ok {
		panic("flowgraph: AlwaysCallback called outside a node lifecycle call")
	}
	for _, existing := range s.alwaysCallbacks {
		if existing == idx {
			return
		}
	}
	s.alwaysCallbacks = append(s.alwaysCallbacks, idx)
}

// ReadyNotifier returns a handle the currently-executing node may move to
// another goroutine so that goroutine can wake the scheduler (RealTime
// mode only, but harmless to construct in any mode).
func (s *GraphState) ReadyNotifier() ReadyNotifier {
	idx, ok := s.CurrentNodeIndex()
	if !ok {
		panic("flowgraph: ReadyNotifier called outside a node lifecycle call")
	}
	return ReadyNotifier{nodeIndex: idx, inbox: s.notifyInbox}
}

// Ticked reports whether upstream ticked this cycle. Safe to call with any
// Node, including ones outside this graph (returns false).
func (s *GraphState) Ticked(upstream Node) bool {
	idx, ok := s.nodeIndexOf[upstream]
	if !ok {
		return false
	}
	return s.ticked[idx]
}

// Terminate requests a graceful exit at the end of the current cycle. A
// nil result is a normal termination; a non-nil result is the first
// failure Graph.Run returns.
func (s *GraphState) Terminate(result error) {
	s.terminated = true
	s.result = result
}

// MarkDirty schedules an arbitrary known node index for evaluation in the
// current cycle. Idempotent within a cycle: once a node is dirty, further
// MarkDirty calls for it are no-ops until the dirty buckets are cleared at
// the start of the next cycle.
func (s *GraphState) MarkDirty(index int) {
	if index < 0 || index >= len(s.dirtySet) || s.dirtySet[index] {
		return
	}
	s.dirtySet[index] = true
	layer := s.layer[index]
	s.dirtyBuckets[layer] = append(s.dirtyBuckets[layer], index)
}

// MarkDirtyNode resolves n to its wiring index and marks it dirty. A no-op
// if n is not part of this graph.
func (s *GraphState) MarkDirtyNode(n Node) {
	if idx, ok := s.nodeIndexOf[n]; ok {
		s.MarkDirty(idx)
	}
}

func (s *GraphState) setCurrentNode(idx int) { s.currentNodeIndex = idx }
func (s *GraphState) clearCurrentNode()      { s.currentNodeIndex = noCurrentNode }

func (s *GraphState) clearCycleState() {
	for i := range s.ticked {
		s.ticked[i] = false
	}
	for i := range s.dirtyBuckets {
		s.dirtyBuckets[i] = s.dirtyBuckets[i][:0]
	}
	for i := range s.dirtySet {
		s.dirtySet[i] = false
	}
}
