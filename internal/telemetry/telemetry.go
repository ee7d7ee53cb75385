// Package telemetry registers the server's Prometheus metrics.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all portfolio Prometheus metrics.
type Metrics struct {
	// Live metrics widget
	CommitsLast30Days prometheus.Gauge
	ActiveDays        prometheus.Gauge
	PageViews         prometheus.Gauge
	Visitors          prometheus.Gauge
	FetchFailures     *prometheus.CounterVec
	FetchDuration     *prometheus.HistogramVec

	// Analytics events
	EventsTracked *prometheus.CounterVec
	EventsDropped prometheus.Counter
	EventsFlushed prometheus.Counter

	// Audience views
	ViewChanges    *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Default returns the process-wide metrics, registering them on first use.
// promauto registers globally, so a second registration would panic.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func newMetrics() *Metrics {
	m := &Metrics{}
	initWidgetMetrics(m)
	initEventMetrics(m)
	initViewMetrics(m)
	return m
}

func initWidgetMetrics(m *Metrics) {
	m.CommitsLast30Days = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_commits_last_30_days",
		Help: "Push events in the last 30 days of the public activity feed",
	})
	m.ActiveDays = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_active_days",
		Help: "Distinct calendar days among the most recent public events",
	})
	m.PageViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_page_views",
		Help: "Page views shown by the live metrics widget",
	})
	m.Visitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_visitors",
		Help: "Visitors shown by the live metrics widget",
	})
	m.FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_metrics_fetch_failures_total",
		Help: "Failed live metrics fetches by source",
	}, []string{"source"})
	m.FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_metrics_fetch_duration_seconds",
		Help:    "Duration of live metrics fetches by source",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})
}

func initEventMetrics(m *Metrics) {
	m.EventsTracked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_analytics_events_total",
		Help: "Analytics events accepted into the buffer by action",
	}, []string{"action"})
	m.EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_analytics_events_dropped_total",
		Help: "Analytics events dropped because the buffer was full",
	})
	m.EventsFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_analytics_events_flushed_total",
		Help: "Analytics events written to storage",
	})
}

func initViewMetrics(m *Metrics) {
	m.ViewChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_view_changes_total",
		Help: "Audience view selections by view",
	}, []string{"view"})
	m.ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_active_sessions",
		Help: "Visitor sessions holding a view controller",
	})
}
