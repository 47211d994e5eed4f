package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "imgenhancer"

// Metrics holds the counters recorded by the panel, history cache and
// sweeper. A nil *Metrics records nothing.
type Metrics struct {
	EnhanceRequests  *prometheus.CounterVec
	HistoryEvictions prometheus.Counter
	QuotaRetries     prometheus.Counter
	SweptRecords     prometheus.Counter
}

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// New creates and registers the metrics on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EnhanceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enhance",
			Name:      "requests_total",
			Help:      "Total number of enhancement requests, by outcome.",
		}, []string{"outcome"}),
		HistoryEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "evictions_total",
			Help:      "Total number of history records dropped by the capacity cap.",
		}),
		QuotaRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "quota_retries_total",
			Help:      "Total number of history writes retried after a quota failure.",
		}),
		SweptRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "removed_total",
			Help:      "Total number of stale history records removed by the sweeper.",
		}),
	}

	reg.MustRegister(m.EnhanceRequests, m.HistoryEvictions, m.QuotaRetries, m.SweptRecords)
	return m
}

func (m *Metrics) Enhanced(outcome string) {
	if m == nil {
		return
	}
	m.EnhanceRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Evicted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.HistoryEvictions.Add(float64(n))
}

func (m *Metrics) QuotaRetried() {
	if m == nil {
		return
	}
	m.QuotaRetries.Inc()
}

func (m *Metrics) Swept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SweptRecords.Add(float64(n))
}
