package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a map load.
type Metrics struct {
	// Feed metrics.
	FeedFetches       *prometheus.CounterVec // labels: outcome={success,error}
	FeedFetchDuration prometheus.Histogram

	// Ingestion metrics.
	EventsParsed   prometheus.Counter
	EventsRejected prometheus.Counter

	// Render metrics.
	MarkersRendered  prometheus.Gauge
	RenderDuration   prometheus.Histogram
	MarkersPublished *prometheus.CounterVec // labels: sink={file,http,kafka}
	MapReady         prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "feed_fetches_total",
			Help:      "Feed fetches by outcome.",
		}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of the feed HTTP request including body decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "events_parsed_total",
			Help:      "Feed features accepted as events.",
		}),
		EventsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "events_rejected_total",
			Help:      "Feed features rejected for missing required fields.",
		}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "markers_rendered",
			Help:      "Markers on the most recently composed map.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "render_duration_seconds",
			Help:      "Duration from parsed feed to published map.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		MarkersPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "markers_published_total",
			Help:      "Markers handed to each publish sink.",
		}, []string{"sink"}),
		MapReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "map_ready",
			Help:      "1 once a map has been published, 0 before.",
		}),
	}

	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.EventsParsed,
		m.EventsRejected,
		m.MarkersRendered,
		m.RenderDuration,
		m.MarkersPublished,
		m.MapReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "feed_fetches_total"}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "feed_fetch_duration_seconds"}),
		EventsParsed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "events_parsed_total"}),
		EventsRejected:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "events_rejected_total"}),
		MarkersRendered:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "markers_rendered"}),
		RenderDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "render_duration_seconds"}),
		MarkersPublished:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "markers_published_total"}, []string{"sink"}),
		MapReady:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "map_ready"}),
	}
}
