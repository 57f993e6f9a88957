package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// poll-and-merge cycle.
type Metrics struct {
	PollsTotal      prometheus.Counter
	PollErrors      prometheus.Counter
	PollerRunning   prometheus.Gauge
	LastPollSuccess prometheus.Gauge

	// Feed handling.
	StationLookupMisses prometheus.Counter
	UnmergeableGraphs   prometheus.Counter
	FeedFetchDuration   *prometheus.HistogramVec // label: feed={stations,forecast}
	FeedFetchErrors     *prometheus.CounterVec   // label: feed={stations,forecast}

	// Merge output.
	MergedPoints prometheus.Histogram
	PollDuration prometheus.Histogram

	// Optional Kafka sink.
	SinkPublished     prometheus.Counter
	SinkPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "polls_total",
			Help:      "Total completed poll cycles, successful or not.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "poll_errors_total",
			Help:      "Poll cycles that failed and kept the previous snapshot.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swissmeteo",
			Name:      "poller_running",
			Help:      "1 when the poll loop is active, 0 when shut down.",
		}),
		LastPollSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swissmeteo",
			Name:      "last_poll_success_timestamp_seconds",
			Help:      "Unix time of the last successfully published snapshot.",
		}),
		StationLookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "station_lookup_misses_total",
			Help:      "Polls where the station row was absent and the forecast-feed fallback was used.",
		}),
		UnmergeableGraphs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "unmergeable_graphs_total",
			Help:      "Polls whose graph section lacked a start instant, yielding no fine-grained forecast.",
		}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swissmeteo",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Upstream feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"feed"}),
		FeedFetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "feed_fetch_errors_total",
			Help:      "Upstream feed requests that failed.",
		}, []string{"feed"}),
		MergedPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swissmeteo",
			Name:      "merged_points",
			Help:      "Number of fine-grained forecast points per merge.",
			Buckets:   []float64{0, 10, 25, 50, 100, 200, 400, 800},
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swissmeteo",
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-merge-publish cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SinkPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "sink_published_total",
			Help:      "Snapshots written to the Kafka sink topic.",
		}),
		SinkPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swissmeteo",
			Name:      "sink_publish_errors_total",
			Help:      "Snapshot writes to the Kafka sink that failed.",
		}),
	}

	prometheus.MustRegister(
		m.PollsTotal,
		m.PollErrors,
		m.PollerRunning,
		m.LastPollSuccess,
		m.StationLookupMisses,
		m.UnmergeableGraphs,
		m.FeedFetchDuration,
		m.FeedFetchErrors,
		m.MergedPoints,
		m.PollDuration,
		m.SinkPublished,
		m.SinkPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PollsTotal:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "polls_total"}),
		PollErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "poll_errors_total"}),
		PollerRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "swissmeteo", Name: "poller_running"}),
		LastPollSuccess:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "swissmeteo", Name: "last_poll_success_timestamp_seconds"}),
		StationLookupMisses: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "station_lookup_misses_total"}),
		UnmergeableGraphs:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "unmergeable_graphs_total"}),
		FeedFetchDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "swissmeteo", Name: "feed_fetch_duration_seconds"}, []string{"feed"}),
		FeedFetchErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "feed_fetch_errors_total"}, []string{"feed"}),
		MergedPoints:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "swissmeteo", Name: "merged_points"}),
		PollDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "swissmeteo", Name: "poll_duration_seconds"}),
		SinkPublished:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "sink_published_total"}),
		SinkPublishErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swissmeteo", Name: "sink_publish_errors_total"}),
	}
}
