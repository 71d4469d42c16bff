package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	journalEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "events_total",
		Help:      "Count of events handed to the journal.",
	}, []string{"source", "status"})

	journalFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flush_total",
		Help:      "Count of journal flushes.",
	}, []string{"status"})

	journalFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flush_size",
		Help:      "Number of events per flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	journalFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flush_duration_seconds",
		Help:      "Duration of journal flushes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Journal tracks metrics for the event journal.
type Journal struct{}

// NewJournal constructs a Journal collector.
func NewJournal() *Journal {
	return &Journal{}
}

// ObserveEvent records an accepted or dropped event.
func (m Journal) ObserveEvent(source string, err error) {
	journalEventsTotal.WithLabelValues(orUnknown(source), status(err)).Inc()
}

// ObserveFlush records a flush of size events.
func (m Journal) ObserveFlush(err error, size int, started time.Time) {
	s := status(err)
	journalFlushTotal.WithLabelValues(s).Inc()
	journalFlushSize.Observe(float64(size))
	journalFlushDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}
