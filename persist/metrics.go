package persist

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the sidecar did with offered events.
type Metrics struct {
	Persisted prometheus.Counter
	Retried   prometheus.Counter
	Dropped   prometheus.Counter
}

// NewMetrics creates the sidecar counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Persisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ink",
			Subsystem: "sidecar",
			Name:      "events_persisted_total",
			Help:      "Events written to the store",
		}),
		Retried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ink",
			Subsystem: "sidecar",
			Name:      "write_retries_total",
			Help:      "Failed store writes that were retried",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ink",
			Subsystem: "sidecar",
			Name:      "events_dropped_total",
			Help:      "Events dropped because the buffer was full, the sidecar was closed or the retry budget ran out",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Persisted, m.Retried, m.Dropped)
	}
	return m
}
