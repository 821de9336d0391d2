package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"exchange/models"
)

// KafkaSink publishes engine events as JSON messages keyed by pair, one
// message per event.
type KafkaSink struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

type kafkaEvent struct {
	Type     string          `json:"type"`
	PairID   string          `json:"pairId,omitempty"`
	Order    *models.Order   `json:"order,omitempty"`
	Trades   []*models.Trade `json:"trades,omitempty"`
	OrderID  string          `json:"orderId,omitempty"`
	TraderID string          `json:"traderId,omitempty"`
}

func NewKafkaSink(brokers []string, topic string, logger *logrus.Logger) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

func (s *KafkaSink) OrderProcessed(order *models.Order, trades []*models.Trade) {
	s.publish(order.PairID, kafkaEvent{
		Type:   "orderProcessed",
		PairID: order.PairID,
		Order:  order,
		Trades: trades,
	})
}

func (s *KafkaSink) TradesExecuted(pairID string, trades []*models.Trade) {
	s.publish(pairID, kafkaEvent{
		Type:   "tradesExecuted",
		PairID: pairID,
		Trades: trades,
	})
}

func (s *KafkaSink) OrderTriggered(order *models.Order) {
	s.publish(order.PairID, kafkaEvent{
		Type:   "orderTriggered",
		PairID: order.PairID,
		Order:  order,
	})
}

func (s *KafkaSink) OrderCancelled(orderID, traderID, pairID string) {
	s.publish(pairID, kafkaEvent{
		Type:     "orderCancelled",
		PairID:   pairID,
		OrderID:  orderID,
		TraderID: traderID,
	})
}

func (s *KafkaSink) publish(key string, event kafkaEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Error("marshal engine event failed")
		return
	}

	if err := s.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		s.logger.
			WithError(err).
			WithField("type", event.Type).
			Error("publish engine event failed")
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
