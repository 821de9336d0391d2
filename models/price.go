package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	ID        uint            `db:"id"`
	Symbol    string          `db:"symbol"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}
