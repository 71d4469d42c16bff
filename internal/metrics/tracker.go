package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	trackerFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "fetch_missing_total",
		Help:      "Count of attempts to determine days that need a round.",
	}, []string{"oracle", "service", "status"})

	trackerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "fetch_missing_duration_seconds",
		Help:      "Duration of determining days that need a round.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"oracle", "service", "status"})

	trackerProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "process_batch_total",
		Help:      "Count of processed batches of days.",
	}, []string{"oracle", "service", "status"})

	trackerProcessBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "process_batch_duration_seconds",
		Help:      "Duration of processing a batch of days.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"oracle", "service", "status"})

	trackerProcessBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "process_batch_size",
		Help:      "Number of days processed per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1..512
	}, []string{"oracle", "service"})

	trackerProcessDayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "process_day_duration_seconds",
		Help:      "Duration of fetching reports and submitting a single day.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"oracle", "service", "status"})
)

// Tracker tracks metrics for the earnings tracker and backfill loops.
type Tracker struct {
	oracle  string
	service string
}

// NewTracker constructs a Tracker collector for a service ("track" or "backfill").
func NewTracker(oracle, service string) *Tracker {
	return &Tracker{oracle: orUnknown(oracle), service: orUnknown(service)}
}

// ObserveFetchMissing records a fetch-missing attempt outcome and duration.
func (m Tracker) ObserveFetchMissing(err error, started time.Time) {
	s := status(err)
	trackerFetchTotal.WithLabelValues(m.oracle, m.service, s).Inc()
	trackerFetchDuration.WithLabelValues(m.oracle, m.service, s).Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records processing of a batch of days.
func (m Tracker) ObserveProcessBatch(err error, days int, started time.Time) {
	s := status(err)
	trackerProcessBatchTotal.WithLabelValues(m.oracle, m.service, s).Inc()
	trackerProcessBatchDuration.WithLabelValues(m.oracle, m.service, s).Observe(time.Since(started).Seconds())
	trackerProcessBatchSize.WithLabelValues(m.oracle, m.service).Observe(float64(days))
}

// ObserveProcessDay records processing of a single day.
func (m Tracker) ObserveProcessDay(err error, _ uint64, started time.Time) {
	trackerProcessDayDuration.WithLabelValues(m.oracle, m.service, status(err)).
		Observe(time.Since(started).Seconds())
}
