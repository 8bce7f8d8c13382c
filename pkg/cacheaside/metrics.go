package cacheaside

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	degradations  *prometheus.CounterVec
	writeFailures prometheus.Counter
}

// NewMetrics creates the cache counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movi_cache_requests_total",
			Help: "Cache lookups by result (hit or miss).",
		}, []string{"result"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movi_cache_degraded_total",
			Help: "Cache operations that failed and fell through to the database.",
		}, []string{"op"}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movi_cache_write_failures_total",
			Help: "Cache writes that failed after a successful computation.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.degradations, m.writeFailures)
	}
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.requests.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.requests.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) degraded(op string) {
	if m != nil {
		m.degradations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) writeFailed() {
	if m != nil {
		m.writeFailures.Inc()
	}
}
