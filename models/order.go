package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	TypeMarket     OrderType = "market"
	TypeLimit      OrderType = "limit"
	TypeStopLoss   OrderType = "stop_loss"
	TypeTakeProfit OrderType = "take_profit"
	TypeStopLimit  OrderType = "stop_limit"
)

type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusOpen            OrderStatus = "open"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusExpired         OrderStatus = "expired"
)

type Order struct {
	ID             string          `db:"id" json:"id"`
	TraderID       string          `db:"trader_id" json:"traderId"`
	PairID         string          `db:"pair_id" json:"pairId"`
	Side           OrderSide       `db:"side" json:"side"`
	Type           OrderType       `db:"type" json:"type"`
	Price          decimal.Decimal `db:"price" json:"price"`
	TriggerPrice   decimal.Decimal `db:"trigger_price" json:"triggerPrice"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	FilledQuantity decimal.Decimal `db:"filled_quantity" json:"filledQuantity"`
	RemainingLock  decimal.Decimal `db:"remaining_lock" json:"-"`
	Status         OrderStatus     `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	TriggeredAt    *time.Time      `db:"triggered_at" json:"triggeredAt,omitempty"`
}

// RemainingQuantity is always derived, never stored.
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

func (o *Order) IsConditional() bool {
	switch o.Type {
	case TypeStopLoss, TypeTakeProfit, TypeStopLimit:
		return true
	}
	return false
}

func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusFilled, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (o *Order) IsCancellable() bool {
	switch o.Status {
	case StatusOpen, StatusPartiallyFilled, StatusPending:
		return true
	}
	return false
}
