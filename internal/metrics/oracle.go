package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	oracleRoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "rounds_total",
		Help:      "Count of earnings round submissions.",
	}, []string{"oracle", "kind", "status"})

	oracleRoundDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "round_duration_seconds",
		Help:      "Duration of earnings round submissions.",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	}, []string{"oracle", "kind", "status"})

	oracleLastRoundValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "last_round_value",
		Help:      "Value of the most recent earnings round.",
	}, []string{"oracle"})

	oracleLastRoundDay = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "last_round_day",
		Help:      "Day index of the most recent earnings round.",
	}, []string{"oracle"})
)

// Oracle tracks metrics for an earnings oracle.
type Oracle struct {
	oracle string
}

// NewOracle constructs an Oracle collector.
func NewOracle(oracle string) *Oracle {
	return &Oracle{oracle: orUnknown(oracle)}
}

// ObserveRound records a round submission of the given kind.
func (m Oracle) ObserveRound(kind string, err error, started time.Time) {
	s := status(err)
	oracleRoundsTotal.WithLabelValues(m.oracle, orUnknown(kind), s).Inc()
	oracleRoundDuration.WithLabelValues(m.oracle, orUnknown(kind), s).Observe(time.Since(started).Seconds())
}

// SetLastRound publishes the most recent round.
func (m Oracle) SetLastRound(day uint64, value float64) {
	oracleLastRoundDay.WithLabelValues(m.oracle).Set(float64(day))
	oracleLastRoundValue.WithLabelValues(m.oracle).Set(value)
}
