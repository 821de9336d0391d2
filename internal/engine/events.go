package engine

import "exchange/models"

// EventSink receives engine-emitted events for downstream broadcast.
// Delivery is synchronous on the processing goroutine; sinks that talk to
// slow transports should buffer internally.
type EventSink interface {
	OrderProcessed(order *models.Order, trades []*models.Trade)
	TradesExecuted(pairID string, trades []*models.Trade)
	OrderTriggered(order *models.Order)
	OrderCancelled(orderID, traderID, pairID string)
}

// Fanout delivers every event to each registered sink in order.
type Fanout []EventSink

func (f Fanout) OrderProcessed(order *models.Order, trades []*models.Trade) {
	for _, s := range f {
		s.OrderProcessed(order, trades)
	}
}

func (f Fanout) TradesExecuted(pairID string, trades []*models.Trade) {
	for _, s := range f {
		s.TradesExecuted(pairID, trades)
	}
}

func (f Fanout) OrderTriggered(order *models.Order) {
	for _, s := range f {
		s.OrderTriggered(order)
	}
}

func (f Fanout) OrderCancelled(orderID, traderID, pairID string) {
	for _, s := range f {
		s.OrderCancelled(orderID, traderID, pairID)
	}
}

type NopSink struct{}

func (NopSink) OrderProcessed(*models.Order, []*models.Trade)  {}
func (NopSink) TradesExecuted(string, []*models.Trade)         {}
func (NopSink) OrderTriggered(*models.Order)                   {}
func (NopSink) OrderCancelled(orderID, traderID, pairID string) {}
