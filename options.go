package flowgraph

import (
	"time"

	"go.uber.org/zap"
)

// RunModeKind distinguishes historical replay from real-time execution.
type RunModeKind int

const (
	// RealTimeMode tracks the wall clock; external notifications drive
	// the cycle.
	RealTimeMode RunModeKind = iota
	// HistoricalMode advances engine time through a priority queue as
	// fast as possible, starting from a fixed t0.
	HistoricalMode
)

// RunMode selects the engine's time-advancement regime. Construct with
// RealTime() or HistoricalFrom(t0).
type RunMode struct {
	Kind RunModeKind
	From NanoTime // meaningful only when Kind == HistoricalMode
}

// RealTime returns the RealTime run mode.
func RealTime() RunMode {
	return RunMode{Kind: RealTimeMode}
}

// HistoricalFrom returns the Historical run mode starting at t0.
func HistoricalFrom(t0 NanoTime) RunMode {
	return RunMode{Kind: HistoricalMode, From: t0}
}

// RunForKind distinguishes the three termination causes.
type RunForKind int

const (
	// RunForever stops only on explicit Terminate or a Cycle error.
	RunForever RunForKind = iota
	// RunForCycles stops after the n-th cycle.
	RunForCycles
	// RunForDuration stops once elapsed >= the configured duration.
	RunForDuration
)

// RunFor selects the termination condition. Construct with Forever(),
// RunForNCycles(n), or RunForDurationOf(d).
type RunFor struct {
	Kind     RunForKind
	Cycles   uint32
	Duration time.Duration
}

// Forever runs until explicit termination or a node error.
func Forever() RunFor {
	return RunFor{Kind: RunForever}
}

// RunForNCycles stops after exactly n cycles (RunForNCycles(0) runs no
// cycles at all).
func RunForNCycles(n uint32) RunFor {
	return RunFor{Kind: RunForCycles, Cycles: n}
}

// RunForDurationOf stops once elapsed time reaches d.
func RunForDurationOf(d time.Duration) RunFor {
	return RunFor{Kind: RunForDuration, Duration: d}
}

// GraphOptions configures a Graph at construction time.
type GraphOptions struct {
	// Mode selects RealTime or HistoricalFrom(t0). Required.
	Mode RunMode
	// For selects the termination condition. Required.
	For RunFor

	// Logger receives structured logs from the scheduler. Defaults to
	// zap.NewNop() — silent unless a caller opts in.
	Logger *zap.Logger

	// Metrics, if non-nil, receives per-cycle instrumentation. A nil
	// value disables metrics entirely; see metrics.go.
	Metrics *Metrics

	// NotifierBufferSize sizes the ready-notifier inbox. Zero selects a
	// sensible default.
	NotifierBufferSize int
}

func (o GraphOptions) withDefaults() GraphOptions {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.NotifierBufferSize <= 0 {
		o.NotifierBufferSize = 256
	}
	return o
}
