package flowgraph

// Node is the contract every graph participant implements. A Node's
// identity is its pointer identity: implementations must be reference
// types (structs used through a pointer), never compared structurally.
//
// The five lifecycle methods are called in order by the owning Graph:
// Setup once the whole graph is wired and numbered, Start once before the
// first cycle, Cycle zero or more times, Stop once after the final cycle,
// Teardown once after Stop. A Node must never read or mutate another
// node's internal state — only through the typed Peek operation a Stream
// exposes.
type Node interface {
	// Upstreams declares, once, the set of nodes this node depends on.
	// It is called during wiring, before Setup.
	Upstreams() UpStreams

	// Setup runs after the full graph has been wired and numbered. A node
	// may record its own index via state.CurrentNodeIndex().
	Setup(state *GraphState) error

	// Start runs once, before the first cycle. Nodes register initial
	// timers here via state.AddCallback, or request per-cycle evaluation
	// via state.AlwaysCallback.
	Start(state *GraphState) error

	// Cycle runs when the scheduler has marked this node dirty. It
	// returns true if the node's observable value changed — active
	// downstream dependents are then marked dirty in the same cycle — or
	// an error to terminate the run.
	Cycle(state *GraphState) (bool, error)

	// Stop runs once, after the final cycle.
	Stop(state *GraphState) error

	// Teardown runs once, after Stop, releasing external resources
	// (joining spawned goroutines, closing channels).
	Teardown(state *GraphState) error
}

// Stream is a Node that additionally exposes its current value of type T.
// Peek must be cheap and side-effect-free: the engine may call it any
// number of times per cycle, including from nodes that did not tick.
type Stream[T any] interface {
	Node
	Peek() T
}

// UpStreams is the dependency declaration a Node returns from Upstreams:
// two ordered lists, active then passive. Order within each list is
// preserved into the wiring walk and therefore into dirty-bucket
// insertion order.
type UpStreams struct {
	Active  []Node
	Passive []Node
}

// AnyDep is the type-erased shape Dep[T] satisfies, letting UpStreams
// constructors accept dependencies of heterogeneous value types.
type AnyDep interface {
	Node() Node
	IsActive() bool
}

// Dep is a tagged reference to an upstream Stream[T]: either Active
// (its tick causes the dependent to be re-evaluated in the same cycle)
// or Passive (visible via Peek, never wakes the dependent).
type Dep[T any] struct {
	stream Stream[T]
	active bool
}

// ActiveDep tags s as an active dependency.
func ActiveDep[T any](s Stream[T]) Dep[T] {
	return Dep[T]{stream: s, active: true}
}

// PassiveDep tags s as a passive dependency.
func PassiveDep[T any](s Stream[T]) Dep[T] {
	return Dep[T]{stream: s, active: false}
}

// Peek returns the current value of the dependency's underlying stream.
func (d Dep[T]) Peek() T {
	return d.stream.Peek()
}

// Stream returns the underlying typed stream.
func (d Dep[T]) Stream() Stream[T] {
	return d.stream
}

// Node returns the underlying stream, type-erased to Node, satisfying
// AnyDep.
func (d Dep[T]) Node() Node {
	return d.stream
}

// IsActive reports whether this dependency is active, satisfying AnyDep.
func (d Dep[T]) IsActive() bool {
	return d.active
}

// BuildUpStreams partitions a list of type-erased dependencies into an
// UpStreams value, preserving declaration order within each partition.
// Node implementations use this to build the return value of Upstreams()
// from a mix of Dep[T] values over different T.
func BuildUpStreams(deps ...AnyDep) UpStreams {
	var u UpStreams
	for _, d := range deps {
		if d.IsActive() {
			u.Active = append(u.Active, d.Node())
		} else {
			u.Passive = append(u.Passive, d.Node())
		}
	}
	return u
}
