package metrics

import (
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "operations_total",
		Help:      "Count of settlement engine operations.",
	}, []string{"engine", "operation", "status"})

	settlementOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "operation_duration_seconds",
		Help:      "Duration of settlement engine operations.",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	}, []string{"engine", "operation", "status"})

	settlementSoldHashrate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "sold_hashrate",
		Help:      "Hashrate bound to instruments.",
	}, []string{"engine"})

	settlementDeliveredDays = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "delivered_days",
		Help:      "Number of delivered days.",
	}, []string{"engine"})

	settlementStage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "stage",
		Help:      "Current stage as its numeric value.",
	}, []string{"engine"})
)

// Settlement tracks metrics for one settlement engine.
type Settlement struct {
	engine string
}

// NewSettlement constructs a Settlement collector.
func NewSettlement(engine string) *Settlement {
	return &Settlement{engine: orUnknown(engine)}
}

// Observe records an operation outcome and duration.
func (m Settlement) Observe(operation string, err error, started time.Time) {
	s := status(err)
	settlementOperationsTotal.WithLabelValues(m.engine, operation, s).Inc()
	settlementOperationDuration.WithLabelValues(m.engine, operation, s).Observe(time.Since(started).Seconds())
}

// SetState publishes the engine state after a transition.
func (m Settlement) SetState(stage model.Stage, sold, delivered uint64) {
	settlementStage.WithLabelValues(m.engine).Set(float64(stage))
	settlementSoldHashrate.WithLabelValues(m.engine).Set(float64(sold))
	settlementDeliveredDays.WithLabelValues(m.engine).Set(float64(delivered))
}
