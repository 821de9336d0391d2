package broadcast

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"exchange/models"
)

// TgmSink pushes a short notification to a telegram chat for every engine
// event.
type TgmSink struct {
	tgmBot *tgbotapi.BotAPI
	chatID int64
	logger *logrus.Logger
}

func NewTgmSink(tgmBot *tgbotapi.BotAPI, chatID int64, logger *logrus.Logger) *TgmSink {
	return &TgmSink{
		tgmBot: tgmBot,
		chatID: chatID,
		logger: logger,
	}
}

func (s *TgmSink) OrderProcessed(order *models.Order, trades []*models.Trade) {
	s.send(fmt.Sprintf("[ Order ]\n"+
		"pair:\t%s\n"+
		"side:\t%s\n"+
		"type:\t%s\n"+
		"status:\t%s\n"+
		"filled:\t%s / %s\n"+
		"trades:\t%d",
		order.PairID,
		order.Side,
		order.Type,
		order.Status,
		order.FilledQuantity,
		order.Quantity,
		len(trades)))
}

func (s *TgmSink) TradesExecuted(pairID string, trades []*models.Trade) {
	for _, t := range trades {
		s.send(fmt.Sprintf("[ Trade ]\n"+
			"pair:\t%s\n"+
			"price:\t%s\n"+
			"quantity:\t%s\n"+
			"quote:\t%s",
			pairID,
			t.Price,
			t.Quantity,
			t.QuoteAmount))
	}
}

func (s *TgmSink) OrderTriggered(order *models.Order) {
	s.send(fmt.Sprintf("[ Triggered ]\n"+
		"pair:\t%s\n"+
		"side:\t%s\n"+
		"type:\t%s\n"+
		"trigger:\t%s",
		order.PairID,
		order.Side,
		order.Type,
		order.TriggerPrice))
}

func (s *TgmSink) OrderCancelled(orderID, traderID, pairID string) {
	s.send(fmt.Sprintf("[ Cancelled ]\n"+
		"pair:\t%s\n"+
		"order:\t%s",
		pairID,
		orderID))
}

func (s *TgmSink) send(text string) {
	msg := tgbotapi.NewMessage(s.chatID, text)

	if _, err := s.tgmBot.Send(msg); err != nil {
		s.logger.WithError(err).Error("telegram notification failed")
	}
}
