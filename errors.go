package flowgraph

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors checked with errors.Is. pkg/errors-wrapped values remain
// compatible with the standard errors package because pkg/errors.Wrap
// implements Unwrap.
var (
	// ErrWiringCycle is returned by Graph construction when the declared
	// upstream DAG contains a cycle.
	ErrWiringCycle = errors.New("flowgraph: wiring cycle detected")

	// ErrChannelClosed is the error an adapter reports when its outbound
	// channel is closed unexpectedly by its peer.
	ErrChannelClosed = errors.New("flowgraph: channel closed unexpectedly")

	// ErrNoWork names the HistoricalFrom condition where the scheduled
	// queue is empty and there are no always-callbacks: the run has no
	// source of work and terminates. The dispatcher ends such a run
	// normally (Graph.Run returns nil) and does not return this value.
	ErrNoWork = errors.New("flowgraph: no scheduled work")

	// ErrEmptyQueue signals a contract violation: Pop or NextTime called
	// on an empty TimeQueue. TimeQueue itself panics rather than
	// returning this; it is exported for callers that want to pre-check
	// in tests.
	ErrEmptyQueue = errors.New("flowgraph: time queue is empty")
)

// WiringError wraps a wiring-cycle failure with the node chain that
// exposed it, surfaced at wiring time before the graph starts.
type WiringError struct {
	cause error
	chain []string
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("%s: %v", e.cause, e.chain)
}

func (e *WiringError) Unwrap() error {
	return e.cause
}

func newWiringCycleError(chain []string) error {
	return errors.WithStack(&WiringError{cause: ErrWiringCycle, chain: append([]string(nil), chain...)})
}

// CycleError wraps an error returned from a node's Cycle method with the
// node's index and layer, the information the dispatcher has on hand when
// it records state.result and stops starting new cycles.
type CycleError struct {
	NodeIndex int
	Layer     int
	cause     error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("flowgraph: node %d (layer %d) cycle failed: %v", e.NodeIndex, e.Layer, e.cause)
}

func (e *CycleError) Unwrap() error {
	return e.cause
}

func newCycleError(nodeIndex, layer int, cause error) error {
	return errors.WithStack(&CycleError{NodeIndex: nodeIndex, Layer: layer, cause: cause})
}
