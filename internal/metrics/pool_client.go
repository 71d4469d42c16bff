package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pool_client",
		Name:      "requests_total",
		Help:      "Count of mining pool API requests.",
	}, []string{"pool", "operation", "status"})
	poolRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pool_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of mining pool API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pool", "operation", "status"})
)

// PoolClient tracks metrics for one mining pool API.
type PoolClient struct {
	pool string
}

// NewPoolClient constructs a PoolClient collector.
func NewPoolClient(pool string) *PoolClient {
	return &PoolClient{pool: orUnknown(pool)}
}

// Observe records a single request outcome and duration.
func (m PoolClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	poolRequestsTotal.WithLabelValues(m.pool, operation, s).Inc()
	poolRequestDuration.WithLabelValues(m.pool, operation, s).Observe(time.Since(started).Seconds())
}
