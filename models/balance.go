package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Balance struct {
	TraderID  string          `db:"trader_id" json:"traderId"`
	Currency  string          `db:"currency" json:"currency"`
	Available decimal.Decimal `db:"available" json:"available"`
	Locked    decimal.Decimal `db:"locked" json:"locked"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
