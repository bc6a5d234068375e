// Package telemetry holds the daemon's own Prometheus instrumentation:
// module loads, dispatch fan-outs and callback failures.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the self-observability counters. All methods are nil-safe
// so instrumentation can be left unattached in tests.
type Metrics struct {
	modulesLoaded        prometheus.Counter
	moduleLoadFailures   prometheus.Counter
	dispatches           prometheus.Counter
	writeFailures        *prometheus.CounterVec
	readFailures         *prometheus.CounterVec
	complaintsSuppressed prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		modulesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "modules_loaded_total",
			Help:      "Modules successfully loaded, dynamic and built-in.",
		}),
		moduleLoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "module_load_failures_total",
			Help:      "Load requests that found no usable module.",
		}),
		dispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "dispatches_total",
			Help:      "Value lists fanned out to write callbacks.",
		}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "write_failures_total",
			Help:      "Write callback invocations that returned an error.",
		}, []string{"writer"}),
		readFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "read_failures_total",
			Help:      "Read callback invocations that returned an error.",
		}, []string{"reader"}),
		complaintsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collectd",
			Name:      "complaints_suppressed_total",
			Help:      "Log lines withheld by the complaint throttle.",
		}),
	}
	reg.MustRegister(
		m.modulesLoaded,
		m.moduleLoadFailures,
		m.dispatches,
		m.writeFailures,
		m.readFailures,
		m.complaintsSuppressed,
	)
	return m
}

func (m *Metrics) ModuleLoaded() {
	if m != nil {
		m.modulesLoaded.Inc()
	}
}

func (m *Metrics) ModuleLoadFailed() {
	if m != nil {
		m.moduleLoadFailures.Inc()
	}
}

func (m *Metrics) Dispatched() {
	if m != nil {
		m.dispatches.Inc()
	}
}

func (m *Metrics) WriteFailed(writer string) {
	if m != nil {
		m.writeFailures.WithLabelValues(writer).Inc()
	}
}

func (m *Metrics) ReadFailed(reader string) {
	if m != nil {
		m.readFailures.WithLabelValues(reader).Inc()
	}
}

func (m *Metrics) ComplaintSuppressed() {
	if m != nil {
		m.complaintsSuppressed.Inc()
	}
}
