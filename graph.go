package flowgraph

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// downstreamEdge records one reverse-linked edge discovered during wiring:
// node `index` depends on the owning entry, and `active` says whether that
// dependency is active (its tick should dirty `index`).
type downstreamEdge struct {
	index  int
	active bool
}

// nodeEntry is a graph's scheduler-owned record for one wired node: the
// node itself, its wiring layer, and the downstream edges discovered while
// reverse-linking the declared upstream DAG. The scheduler owns each node
// exclusively through this container and addresses it by integer handle,
// so the hot path never touches reference counts.
type nodeEntry struct {
	node       Node
	layer      int
	downstream []downstreamEdge
}

// Graph wires a set of root nodes into layered dependency order and drives
// the per-cycle evaluator.
type Graph struct {
	opts     GraphOptions
	state    *GraphState
	entries  []*nodeEntry
	maxLayer int
}

// NewGraph walks the declared upstream DAG reachable from roots, assigns
// each node a wiring index and layer, and returns a Graph ready to Run.
// Wiring is O(V+E) and runs once, before any node's Setup. A cycle in the
// declared upstream set is rejected with an error wrapping ErrWiringCycle
// rather than diverging.
func NewGraph(roots []Node, opts GraphOptions) (*Graph, error) {
	opts = opts.withDefaults()

	g := &Graph{opts: opts}
	nodeIndexOf := make(map[Node]int)

	color := make(map[Node]int) // 0 = unvisited, 1 = in progress, 2 = done
	var chain []string

	var visit func(n Node) (int, error)
	visit = func(n Node) (int, error) {
		if idx, ok := nodeIndexOf[n]; ok {
			return idx, nil
		}
		if color[n] == 1 {
			return 0, newWiringCycleError(append(chain, nodeLabel(n)))
		}

		color[n] = 1
		chain = append(chain, nodeLabel(n))

		ups := n.Upstreams()
		layer := -1
		for _, u := range ups.Active {
			uidx, err := visit(u)
			if err != nil {
				return 0, err
			}
			if g.entries[uidx].layer > layer {
				layer = g.entries[uidx].layer
			}
		}
		for _, u := range ups.Passive {
			uidx, err := visit(u)
			if err != nil {
				return 0, err
			}
			if g.entries[uidx].layer > layer {
				layer = g.entries[uidx].layer
			}
		}
		layer++

		idx := len(g.entries)
		g.entries = append(g.entries, &nodeEntry{node: n, layer: layer})
		nodeIndexOf[n] = idx

		for _, u := range ups.Active {
			uidx := nodeIndexOf[u]
			g.entries[uidx].downstream = append(g.entries[uidx].downstream, downstreamEdge{index: idx, active: true})
		}
		for _, u := range ups.Passive {
			uidx := nodeIndexOf[u]
			g.entries[uidx].downstream = append(g.entries[uidx].downstream, downstreamEdge{index: idx, active: false})
		}

		if layer > g.maxLayer {
			g.maxLayer = layer
		}

		color[n] = 2
		chain = chain[:len(chain)-1]
		return idx, nil
	}

	for _, r := range roots {
		if _, err := visit(r); err != nil {
			return nil, err
		}
	}

	layers := make([]int, len(g.entries))
	for i, e := range g.entries {
		layers[i] = e.layer
	}
	g.state = newGraphState(opts, len(g.entries), g.maxLayer, nodeIndexOf, layers)

	return g, nil
}

func nodeLabel(n Node) string {
	return fmt.Sprintf("%T(%p)", n, n)
}

// NodeCount returns the number of nodes wired into the graph.
func (g *Graph) NodeCount() int { return len(g.entries) }

// MaxLayer returns the highest wiring layer among the graph's nodes.
func (g *Graph) MaxLayer() int { return g.maxLayer }

// Run drives the graph from Setup through Teardown and blocks until
// termination. It returns the first error observed — from Setup, Start,
// a node's Cycle, Stop, Teardown, or an explicit state.Terminate(err) — or
// nil on normal termination.
func (g *Graph) Run() error {
	if err := g.runSetup(); err != nil {
		return err
	}

	g.initTime()

	startedCount, err := g.runStart()
	if err != nil {
		g.runStopRange(startedCount)
		g.runTeardownRange(startedCount)
		return err
	}

	runErr := g.runCycles()

	stopErr := g.runStop()
	teardownErr := g.runTeardown()

	if runErr != nil {
		return runErr
	}
	if g.state.result != nil {
		return g.state.result
	}
	if stopErr != nil {
		return stopErr
	}
	return teardownErr
}

func (g *Graph) initTime() {
	switch g.state.mode.Kind {
	case HistoricalMode:
		g.state.startTime = g.state.mode.From
		g.state.time = g.state.mode.From
	case RealTimeMode:
		now := Now()
		g.state.startTime = now
		g.state.time = now
	}
}

func (g *Graph) runSetup() error {
	state := g.state
	for idx, e := range g.entries {
		state.setCurrentNode(idx)
		err := e.node.Setup(state)
		state.clearCurrentNode()
		if err != nil {
			return errors.Wrapf(err, "flowgraph: node %d setup failed", idx)
		}
	}
	return nil
}

// runStart starts nodes in wiring order and returns the number that
// started successfully, so callers know which range to Stop/Teardown on
// failure.
func (g *Graph) runStart() (startedCount int, err error) {
	state := g.state
	for idx, e := range g.entries {
		state.setCurrentNode(idx)
		serr := e.node.Start(state)
		state.clearCurrentNode()
		if serr != nil {
			return idx, errors.Wrapf(serr, "flowgraph: node %d start failed", idx)
		}
	}
	return len(g.entries), nil
}

func (g *Graph) runStop() error     { return g.runStopRange(len(g.entries)) }
func (g *Graph) runTeardown() error { return g.runTeardownRange(len(g.entries)) }

func (g *Graph) runStopRange(n int) error {
	state := g.state
	var firstErr error
	for idx := 0; idx < n; idx++ {
		e := g.entries[idx]
		state.setCurrentNode(idx)
		err := e.node.Stop(state)
		state.clearCurrentNode()
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "flowgraph: node %d stop failed", idx)
		}
	}
	return firstErr
}

func (g *Graph) runTeardownRange(n int) error {
	state := g.state
	var firstErr error
	for idx := 0; idx < n; idx++ {
		e := g.entries[idx]
		state.setCurrentNode(idx)
		err := e.node.Teardown(state)
		state.clearCurrentNode()
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "flowgraph: node %d teardown failed", idx)
		}
	}
	return firstErr
}

// runCycles drives the cycle loop until termination and returns the first
// error a node's Cycle reported, or nil.
func (g *Graph) runCycles() error {
	state := g.state

	if state.runFor.Kind == RunForCycles && state.runFor.Cycles == 0 {
		return nil // RunFor::Cycles(0): terminate without calling any cycle.
	}

	for {
		ran, err := g.runOneCycle()
		if err != nil {
			return err
		}
		if !ran {
			return nil // no source of work (historical mode only)
		}
		if state.isLastCycle || state.terminated {
			return nil
		}
	}
}

// runOneCycle executes one full engine cycle: clear, integrate, dispatch.
// It returns ran=false only when historical mode has no source of further
// work (empty scheduled queue and no always-callbacks).
func (g *Graph) runOneCycle() (ran bool, err error) {
	state := g.state
	state.clearCycleState()

	var hasWork bool
	switch state.mode.Kind {
	case HistoricalMode:
		hasWork = g.integrateHistorical()
	case RealTimeMode:
		hasWork = g.integrateRealTime()
	}
	if !hasWork {
		return false, nil
	}

	state.isLastCycle = g.computeIsLastCycle()

	cycleErr := g.evaluateLayers()
	state.cycleCount++

	return true, cycleErr
}

// integrateHistorical implements HistoricalFrom integration: advance time
// to the next scheduled callback if nothing is immediately due, then drain
// due callbacks and always-callbacks into the dirty buckets. Returns false
// when there is no source of further work.
func (g *Graph) integrateHistorical() bool {
	state := g.state

	select {
	case idx := <-state.notifyInbox:
		panic(fmt.Sprintf("flowgraph: received ready-notification for node %d in historical mode", idx))
	default:
	}

	if state.scheduledCallbacks.IsEmpty() && len(state.alwaysCallbacks) == 0 {
		return false
	}

	if !state.scheduledCallbacks.IsEmpty() {
		next := state.scheduledCallbacks.NextTime()
		if next > state.time {
			state.time = next
		}
	}

	due := state.scheduledCallbacks.DrainDue(state.time)
	for _, v := range due {
		state.MarkDirty(v.Value)
	}
	for _, idx := range state.alwaysCallbacks {
		state.MarkDirty(idx)
	}

	state.metrics.setScheduledQueueSize(state.scheduledCallbacks.Len())
	return true
}

// integrateRealTime implements RealTime integration: drain the
// ready-callback inbox and due scheduled callbacks non-blockingly; if
// neither found work, wait on the inbox up to the next deadline; finally
// refresh time from the wall clock. Always returns true — real-time mode
// never runs out of "work" the way historical mode can, it simply waits.
func (g *Graph) integrateRealTime() bool {
	state := g.state

	drained := drainInbox(state.notifyInbox)
	for _, idx := range drained {
		state.MarkDirty(idx)
	}
	foundWork := len(drained) > 0

	now := Now()
	due := state.scheduledCallbacks.DrainDue(now)
	for _, v := range due {
		state.MarkDirty(v.Value)
	}
	foundWork = foundWork || len(due) > 0
	foundWork = foundWork || len(state.alwaysCallbacks) > 0
	for _, idx := range state.alwaysCallbacks {
		state.MarkDirty(idx)
	}

	if !foundWork {
		deadline := g.endTime()
		if !state.scheduledCallbacks.IsEmpty() {
			if nt := state.scheduledCallbacks.NextTime(); nt < deadline {
				deadline = nt
			}
		}
		timeout := time.Duration(deadline.Sub(Now()))
		if timeout < 0 {
			timeout = 0
		}
		select {
		case idx := <-state.notifyInbox:
			state.MarkDirty(idx)
		case <-time.After(timeout):
		}
	}

	state.time = Now()
	state.metrics.setScheduledQueueSize(state.scheduledCallbacks.Len())
	state.metrics.setNotifierQueueDepth(len(state.notifyInbox))
	return true
}

func drainInbox(inbox chan int) []int {
	var drained []int
	for {
		select {
		case idx := <-inbox:
			drained = append(drained, idx)
		default:
			return drained
		}
	}
}

func (g *Graph) endTime() NanoTime {
	state := g.state
	if state.runFor.Kind == RunForDuration {
		return state.startTime.AddDuration(state.runFor.Duration)
	}
	return MaxTime
}

func (g *Graph) computeIsLastCycle() bool {
	state := g.state
	switch state.runFor.Kind {
	case RunForCycles:
		return state.cycleCount+1 >= state.runFor.Cycles
	case RunForDuration:
		return state.time.Sub(state.startTime) >= NanoTime(state.runFor.Duration)
	default:
		return false
	}
}

// evaluateLayers runs every dirty node, layer-ascending then
// insertion-order within a layer, propagating ticks to active downstream
// edges in the same pass.
func (g *Graph) evaluateLayers() error {
	state := g.state

	for layer := 0; layer <= g.maxLayer; layer++ {
		for i := 0; i < len(state.dirtyBuckets[layer]); i++ {
			idx := state.dirtyBuckets[layer][i]
			entry := g.entries[idx]

			state.setCurrentNode(idx)
			ticked, err := entry.node.Cycle(state)
			state.clearCurrentNode()

			if err != nil {
				wrapped := newCycleError(idx, layer, err)
				state.Terminate(wrapped)
				state.metrics.recordCycleError()
				return wrapped
			}

			if ticked {
				state.ticked[idx] = true
				state.metrics.recordTick()
				for _, edge := range entry.downstream {
					if edge.active {
						state.MarkDirty(edge.index)
					}
				}
			}
		}
	}

	state.metrics.recordCycle()
	return nil
}
