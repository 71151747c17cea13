package flowgraph

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a Graph updates as it runs.
// Pass nil GraphOptions.Metrics to disable instrumentation entirely — the
// dispatcher nil-checks before every update, so metrics are strictly
// optional and impose no overhead when unused.
type Metrics struct {
	cyclesTotal        prometheus.Counter
	nodesTickedTotal   prometheus.Counter
	cycleErrorsTotal   prometheus.Counter
	scheduledQueueSize prometheus.Gauge
	notifierQueueDepth prometheus.Gauge
}

// NewMetrics registers flowgraph's collectors on reg and returns a Metrics
// value ready to pass as GraphOptions.Metrics. The collectors carry no
// per-run label, and registration uses MustRegister, so calling NewMetrics
// twice on the same registry panics on the duplicate collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "cycles_total",
			Help:      "Number of scheduler cycles run.",
		}),
		nodesTickedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "nodes_ticked_total",
			Help:      "Number of node Cycle calls that returned true.",
		}),
		cycleErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "cycle_errors_total",
			Help:      "Number of node Cycle calls that returned an error.",
		}),
		scheduledQueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowgraph",
			Name:      "scheduled_queue_size",
			Help:      "Pending entries in the scheduled-callback time queue.",
		}),
		notifierQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowgraph",
			Name:      "notifier_queue_depth",
			Help:      "Pending entries in the ready-notifier inbox.",
		}),
	}

	reg.MustRegister(
		m.cyclesTotal,
		m.nodesTickedTotal,
		m.cycleErrorsTotal,
		m.scheduledQueueSize,
		m.notifierQueueDepth,
	)

	return m
}

func (m *Metrics) recordCycle() {
	if m == nil {
		return
	}
	m.cyclesTotal.Inc()
}

func (m *Metrics) recordTick() {
	if m == nil {
		return
	}
	m.nodesTickedTotal.Inc()
}

func (m *Metrics) recordCycleError() {
	if m == nil {
		return
	}
	m.cycleErrorsTotal.Inc()
}

func (m *Metrics) setScheduledQueueSize(n int) {
	if m == nil {
		return
	}
	m.scheduledQueueSize.Set(float64(n))
}

func (m *Metrics) setNotifierQueueDepth(n int) {
	if m == nil {
		return
	}
	m.notifierQueueDepth.Set(float64(n))
}
