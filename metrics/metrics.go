// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/siemens/hostwatch/monitor"
	"github.com/siemens/hostwatch/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hostwatch"

// Cycle outcomes, as used in the "outcome" label of the cycle counter.
const (
	Completed = "completed"
	Aborted   = "aborted"
	Cancelled = "cancelled"
)

// Metrics of a host watch, registered with their own registry instead of the
// process-wide default one.
type Metrics struct {
	registry     *prometheus.Registry
	cycles       *prometheus.CounterVec
	duration     prometheus.Histogram
	probes       *prometheus.CounterVec
	reachable    prometheus.Gauge
	connected    prometheus.Counter
	disconnected prometheus.Counter
}

// New returns a new set of metrics, labelled with the specified subnet in
// CIDR or address/mask notation.
func New(subnet string) *Metrics {
	labels := prometheus.Labels{"subnet": subnet}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "cycles_total",
				Help:        "Total number of scan cycles, by outcome.",
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "cycle_duration_seconds",
				Help:        "Duration of scan cycles.",
				ConstLabels: labels,
				// 10ms .. ~40s
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 13),
			},
		),
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "probes_total",
				Help:        "Total number of host probes, by verdict.",
				ConstLabels: labels,
			},
			[]string{"verdict"},
		),
		reachable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "hosts_reachable",
				Help:        "Number of hosts reachable in the most recent completed cycle.",
				ConstLabels: labels,
			},
		),
		connected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "hosts_connected_total",
				Help:        "Total number of hosts that newly became reachable.",
				ConstLabels: labels,
			},
		),
		disconnected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "hosts_disconnected_total",
				Help:        "Total number of hosts that stopped being reachable.",
				ConstLabels: labels,
			},
		),
	}
	m.registry.MustRegister(m.cycles, m.duration, m.probes,
		m.reachable, m.connected, m.disconnected)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler exposes the metrics. Mount it with mux.Handle("/metrics", m.Handler()).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveProbe counts a single probe verdict; it is safe for concurrent use
// and fits scan.WithProbeObserver.
func (m *Metrics) ObserveProbe(_ types.Addr, v types.Verdict) {
	m.probes.WithLabelValues(v.String()).Inc()
}

// ObserveCycle records the duration and outcome of a scan cycle; it fits
// scan.WithCycleObserver.
func (m *Metrics) ObserveCycle(d time.Duration, err error) {
	outcome := Completed
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = Cancelled
	default:
		outcome = Aborted
	}
	m.cycles.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// Report updates the host gauges and counters from a completed cycle's delta,
// making Metrics a monitor.Reporter.
func (m *Metrics) Report(d monitor.Delta) {
	m.reachable.Set(float64(len(d.Current)))
	m.connected.Add(float64(len(d.NewlyConnected)))
	m.disconnected.Add(float64(len(d.Disconnected)))
}
