package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"

	"exchange/models"
)

// MetricsSink counts engine events for prometheus.
type MetricsSink struct {
	ordersProcessed prometheus.Counter
	tradesExecuted  prometheus.Counter
	ordersTriggered prometheus.Counter
	ordersCancelled prometheus.Counter
}

func NewMetricsSink(processed, trades, triggered, cancelled prometheus.Counter) *MetricsSink {
	return &MetricsSink{
		ordersProcessed: processed,
		tradesExecuted:  trades,
		ordersTriggered: triggered,
		ordersCancelled: cancelled,
	}
}

func (s *MetricsSink) OrderProcessed(order *models.Order, trades []*models.Trade) {
	s.ordersProcessed.Inc()
}

func (s *MetricsSink) TradesExecuted(pairID string, trades []*models.Trade) {
	s.tradesExecuted.Add(float64(len(trades)))
}

func (s *MetricsSink) OrderTriggered(order *models.Order) {
	s.ordersTriggered.Inc()
}

func (s *MetricsSink) OrderCancelled(orderID, traderID, pairID string) {
	s.ordersCancelled.Inc()
}
