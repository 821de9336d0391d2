package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"exchange/models"
)

// CheckConditionalOrders evaluates every pending conditional order for a
// pair against the given price and feeds triggered ones into matching.
// The pair mutex serializes evaluation passes and the row update is
// guarded by the order still being pending, so an order triggers at most
// once. One order's failure is logged and does not stop the pass.
func (e *Engine) CheckConditionalOrders(pairID string, price decimal.Decimal) ([]*models.Order, error) {
	pair, err := e.pairs.Load(pairID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, pairID)
	}

	pb := e.pairBook(pairID)
	pb.mu.Lock()
	defer pb.mu.Unlock()

	pending, err := e.store.PendingConditional(pairID)
	if err != nil {
		return nil, fmt.Errorf("load pending conditional orders: %w", err)
	}

	var triggered []*models.Order
	for _, o := range pending {
		if !ShouldTrigger(o, price) {
			continue
		}
		if err := e.trigger(pair, pb, o, price); err != nil {
			e.logger.
				WithError(err).
				WithField("order_id", o.ID).
				WithField("pair", pairID).
				Error("conditional order trigger failed")
			continue
		}
		triggered = append(triggered, o)
	}

	return triggered, nil
}

// ShouldTrigger applies the side-aware trigger table: a sell stop-loss
// fires when price falls to the trigger, a buy stop-loss when it rises,
// and take-profit mirrors that.
func ShouldTrigger(o *models.Order, price decimal.Decimal) bool {
	switch o.Type {
	case models.TypeStopLoss, models.TypeStopLimit:
		if o.Side == models.SideSell {
			return price.LessThanOrEqual(o.TriggerPrice)
		}
		return price.GreaterThanOrEqual(o.TriggerPrice)
	case models.TypeTakeProfit:
		if o.Side == models.SideSell {
			return price.GreaterThanOrEqual(o.TriggerPrice)
		}
		return price.LessThanOrEqual(o.TriggerPrice)
	}
	return false
}

func (e *Engine) trigger(pair *Pair, pb *pairBook, o *models.Order, price decimal.Decimal) error {
	now := time.Now().UTC()

	conv := *o
	switch o.Type {
	case models.TypeStopLimit:
		conv.Type = models.TypeLimit // keeps its original limit price
	default:
		conv.Type = models.TypeMarket
		conv.Price = decimal.Zero
	}
	conv.Status = models.StatusOpen
	conv.TriggeredAt = &now

	// The conversion and the matching share one unit of work. If the match
	// cannot commit, the row stays pending and a later pass retries it.
	fills := e.plan(pb.book, &conv)
	if _, err := e.execute(pair, pb, &conv, fills, func(tx Tx) error {
		if err := tx.TriggerOrder(&conv); err != nil {
			return fmt.Errorf("mark order triggered: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	*o = conv
	e.logger.
		WithField("order_id", o.ID).
		WithField("pair", pair.Symbol).
		WithField("price", price.String()).
		Info("conditional order triggered")
	e.sink.OrderTriggered(o)

	return nil
}
