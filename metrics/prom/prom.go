// Package prom exports cache.Metrics signals as Prometheus metrics.
package prom

import (
	"github.com/IvanBrykalov/s3fifo/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	inserts  prometheus.Counter
	evicts   *prometheus.CounterVec
	resident prometheus.Gauge
	smallCap prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		hits:    counter("hits_total", "Cache hits"),
		misses:  counter("misses_total", "Cache misses"),
		inserts: counter("inserts_total", "Physical entries admitted"),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Values that left the cache, by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		resident: gauge("resident_entries", "Resident physical entries"),
		smallCap: gauge("small_capacity", "Sum of the shards' small queue caps"),
	}
	reg.MustRegister(a.hits, a.misses, a.inserts, a.evicts, a.resident, a.smallCap)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Insert counts an admission and grows the resident gauge.
func (a *Adapter) Insert() {
	a.inserts.Inc()
	a.resident.Inc()
}

// Evict counts an eviction by reason and shrinks the resident gauge.
// Promotions are internal moves and never reach this hook.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(r.String()).Inc()
	a.resident.Dec()
}

// SmallResize moves the small capacity gauge by delta.
func (a *Adapter) SmallResize(delta int) { a.smallCap.Add(float64(delta)) }

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
