package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is immutable once created.
type Trade struct {
	ID          string          `db:"id" json:"id"`
	BuyOrderID  string          `db:"buy_order_id" json:"buyOrderId"`
	SellOrderID string          `db:"sell_order_id" json:"sellOrderId"`
	BuyerID     string          `db:"buyer_id" json:"buyerId"`
	SellerID    string          `db:"seller_id" json:"sellerId"`
	PairID      string          `db:"pair_id" json:"pairId"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	QuoteAmount decimal.Decimal `db:"quote_amount" json:"quoteAmount"`
	MakerFee    decimal.Decimal `db:"maker_fee" json:"makerFee"`
	TakerFee    decimal.Decimal `db:"taker_fee" json:"takerFee"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}
