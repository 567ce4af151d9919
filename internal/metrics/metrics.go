// Package metrics exposes Prometheus counters for link creation, clicks and earnings.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "shortlink"

// Click outcomes
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics holds the service collectors on a private registry.
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	linksCreated    *prometheus.CounterVec
	clicksTotal     *prometheus.CounterVec
	earningsTotal   prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go runtime collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		linksCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "links_created_total",
				Help:      "Short links handed out, split by whether an existing link was reused.",
			},
			[]string{"reused"},
		),
		clicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clicks_total",
				Help:      "Recorded clicks by fraud validation outcome.",
			},
			[]string{"outcome"},
		),
		earningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "earnings_total",
			Help:      "Earnings credited to links, in currency units.",
		}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.linksCreated,
		m.clicksTotal,
		m.earningsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// LinkCreated counts a create call
func (m *Metrics) LinkCreated(reused bool) {
	if m == nil {
		return
	}
	m.linksCreated.WithLabelValues(strconv.FormatBool(reused)).Inc()
}

// ClickRecorded counts a click and adds its earnings
func (m *Metrics) ClickRecorded(valid bool, earnings decimal.Decimal) {
	if m == nil {
		return
	}
	outcome := OutcomeInvalid
	if valid {
		outcome = OutcomeValid
	}
	m.clicksTotal.WithLabelValues(outcome).Inc()
	if earnings.IsPositive() {
		m.earningsTotal.Add(earnings.InexactFloat64())
	}
}

// ObserveRequest records the latency of a served request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
