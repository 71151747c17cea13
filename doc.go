// Package flowgraph is a reactive dataflow engine for building directed
// acyclic computation graphs whose nodes tick in response to time or
// upstream changes.
//
// Graphs run under two indistinguishable execution modes: historical
// (engine time advances through events as fast as possible) and real-time
// (engine time tracks the wall clock and external I/O notifies the
// scheduler). This package is the core: the data structures that
// represent nodes and streams, the wiring phase that topologically layers
// them, and the per-cycle evaluator that decides which nodes execute each
// engine step.
//
// # Core Types
//
// NanoTime - a 64-bit nanosecond timestamp with arithmetic and a
// monotonic-ish wall-clock read.
//
// TimeQueue[T] - a min-priority queue of time-stamped values, used both
// internally by the scheduler and by node implementations (see the
// sibling nodes package's Delay).
//
// Node / Stream[T] - the contract every graph participant implements, and
// the typed peek operation a Stream additionally exposes.
//
// Dep[T] - a tagged active/passive reference to an upstream Stream[T],
// used to build a Node's declared UpStreams.
//
// GraphState - the per-run mutable state a Graph exposes to every Node
// during its lifecycle calls.
//
// Graph - wiring and per-cycle dispatch.
//
// # Example Usage
//
//	root := nodes.NewTicker(100 * time.Millisecond)
//	g, err := flowgraph.NewGraph([]flowgraph.Node{root}, flowgraph.GraphOptions{
//	    Mode: flowgraph.HistoricalFrom(0),
//	    For:  flowgraph.RunForDurationOf(300 * time.Millisecond),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := g.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A single engine goroutine drives wiring, dispatch, and every node
// lifecycle call. The only state shared across goroutines is the
// ready-notifier channel (see ReadyNotifier) and any message channel an
// adapter node owns between itself and a worker goroutine it spawned —
// see the sibling adapters/asyncio package.
//
// # Design Principles
//
// 1. Node identity is pointer identity - implementations are reference
// types, never compared structurally.
//
// 2. Layer-ascending, insertion-order dispatch within a cycle -
// deterministic given a deterministic input schedule.
//
// 3. Active dependencies dirty their dependent in the same cycle; passive
// dependencies never do.
//
// 4. The core has no opinion on what a node computes - map, filter,
// merge, delay, and demux live in the sibling nodes package, built
// entirely on the public contract described here.
package flowgraph
