// Package metrics exposes Prometheus instruments for the API and the stylist pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	GenerationRequests *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	DroppedItemIDs         *prometheus.CounterVec
	DroppedScheduleEntries prometheus.Counter
	OutfitsSaved           *prometheus.CounterVec
	FeedFallbacks          prometheus.Counter
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GenerationRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_requests_total",
				Help:      "Generation service calls by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Generation service latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
			},
			[]string{"kind"},
		),
		DroppedItemIDs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repair_dropped_item_ids_total",
				Help:      "Item ids returned by the model that were not in the wardrobe",
			},
			[]string{"kind"},
		),
		DroppedScheduleEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_dropped_entries_total",
				Help:      "Generated schedule entries whose day matched no planner slot",
			},
		),
		OutfitsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outfits_saved_total",
				Help:      "Outfits persisted by source",
			},
			[]string{"source"},
		),
		FeedFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "community_feed_fallbacks_total",
				Help:      "Feed reads served from the cached snapshot after a store failure",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.GenerationRequests,
		c.GenerationDuration,
		c.DroppedItemIDs,
		c.DroppedScheduleEntries,
		c.OutfitsSaved,
		c.FeedFallbacks,
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveGeneration records one generation call
func (c *Collector) ObserveGeneration(kind, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.GenerationRequests.WithLabelValues(kind, outcome).Inc()
	c.GenerationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddDroppedItemIDs counts ids removed by repair
func (c *Collector) AddDroppedItemIDs(kind string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.DroppedItemIDs.WithLabelValues(kind).Add(float64(n))
}

// AddDroppedScheduleEntries counts schedule entries with no matching day
func (c *Collector) AddDroppedScheduleEntries(n int) {
	if c == nil || n == 0 {
		return
	}
	c.DroppedScheduleEntries.Add(float64(n))
}

// IncOutfitsSaved counts a persisted outfit
func (c *Collector) IncOutfitsSaved(source string) {
	if c == nil {
		return
	}
	c.OutfitsSaved.WithLabelValues(source).Inc()
}

// IncFeedFallback counts a degraded feed read
func (c *Collector) IncFeedFallback() {
	if c == nil {
		return
	}
	c.FeedFallbacks.Inc()
}
