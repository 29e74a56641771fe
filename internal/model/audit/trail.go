package audit

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/logger"
)

var counterCostEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "costs",
		Subsystem: "audit",
		Name:      "cost_events_total",
	},
	[]string{"category"},
)

// Trail is the consumer-side handler of cost events. It keeps a
// per-category counter and writes each event to the log.
type Trail struct{}

func NewTrail() *Trail {
	return &Trail{}
}

func (t *Trail) HandleCostEvent(_ context.Context, ev CostEvent) error {
	counterCostEvents.WithLabelValues(ev.Category).Inc()

	logger.Info("cost recorded",
		zap.String("userID", ev.UserID),
		zap.String("category", ev.Category),
		zap.Float64("sum", ev.Sum),
		zap.Time("createdAt", ev.CreatedAt),
		zap.Time("recordedAt", ev.RecordedAt),
	)
	return nil
}
