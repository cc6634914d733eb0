package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the alert monitor.
type Metrics struct {
	Polls         prometheus.Counter
	FetchErrors   prometheus.Counter
	AlertsFetched prometheus.Counter
	PollDuration  prometheus.Histogram
	PollerRunning prometheus.Gauge

	// Per-category pipeline metrics.
	AlertsClassified *prometheus.CounterVec // labels: category
	AlertsNotified   *prometheus.CounterVec // labels: category
	AlertsDuplicate  *prometheus.CounterVec // labels: category
	HistorySize      *prometheus.GaugeVec   // labels: category

	// Side-effect failures.
	SinkErrors *prometheus.CounterVec // labels: sink={sound,logfile,kafka,ntfy}

	SeenIdentities prometheus.Gauge
	Muted          prometheus.Gauge
}

// NewMetrics creates and registers all monitor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Polls,
		m.FetchErrors,
		m.AlertsFetched,
		m.PollDuration,
		m.PollerRunning,
		m.AlertsClassified,
		m.AlertsNotified,
		m.AlertsDuplicate,
		m.HistorySize,
		m.SinkErrors,
		m.SeenIdentities,
		m.Muted,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "polls_total",
			Help:      "Total poll cycles started.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "fetch_errors_total",
			Help:      "Total failed fetches of the alerts feed.",
		}),
		AlertsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "fetched_total",
			Help:      "Total alert records read from the feed.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nws_alerts",
			Name:      "poll_duration_seconds",
			Help:      "Duration of a fetch-classify-notify cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nws_alerts",
			Name:      "poller_running",
			Help:      "1 when the poll loop is active, 0 when shut down.",
		}),
		AlertsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "classified_total",
			Help:      "Alerts assigned to a category, including repeats.",
		}, []string{"category"}),
		AlertsNotified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "notified_total",
			Help:      "Newly seen alerts announced.",
		}, []string{"category"}),
		AlertsDuplicate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "duplicates_total",
			Help:      "Classified alerts skipped because their identity was already announced.",
		}, []string{"category"}),
		HistorySize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nws_alerts",
			Name:      "history_size",
			Help:      "Entries currently held in each category history.",
		}, []string{"category"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nws_alerts",
			Name:      "sink_errors_total",
			Help:      "Failed notification side effects by sink.",
		}, []string{"sink"}),
		SeenIdentities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nws_alerts",
			Name:      "seen_identities",
			Help:      "Alert identities remembered for deduplication.",
		}),
		Muted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nws_alerts",
			Name:      "sound_muted",
			Help:      "1 when sound playback is muted.",
		}),
	}
}
