package postgres

import (
	"github.com/jmoiron/sqlx"

	"exchange/models"
)

func insertTrade(e sqlx.Ext, t *models.Trade) error {
	_, err := sqlx.NamedExec(e,
		`INSERT INTO trades (id, buy_order_id, sell_order_id, buyer_id, seller_id, pair_id, price, quantity, quote_amount, maker_fee, taker_fee, created_at)
		 VALUES (:id, :buy_order_id, :sell_order_id, :buyer_id, :seller_id, :pair_id, :price, :quantity, :quote_amount, :maker_fee, :taker_fee, :created_at)`,
		t)
	return err
}
