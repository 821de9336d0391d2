package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"exchange/internal/engine"
)

// Balance mutations are single guarded UPDATEs; a zero row count means the
// trader lacks the funds and surfaces as ErrInsufficientBalance.

func lockBalance(e sqlx.Ext, traderID, currency string, amount decimal.Decimal) error {
	return guarded(e,
		`UPDATE balances
		 SET available = available - $3, locked = locked + $3, updated_at = now()
		 WHERE trader_id = $1 AND currency = $2 AND available >= $3`,
		traderID, currency, amount)
}

func releaseBalance(e sqlx.Ext, traderID, currency string, amount decimal.Decimal) error {
	return guarded(e,
		`UPDATE balances
		 SET locked = locked - $3, available = available + $3, updated_at = now()
		 WHERE trader_id = $1 AND currency = $2 AND locked >= $3`,
		traderID, currency, amount)
}

func debitBalance(e sqlx.Ext, traderID, currency string, amount decimal.Decimal) error {
	return guarded(e,
		`UPDATE balances
		 SET available = available - $3, updated_at = now()
		 WHERE trader_id = $1 AND currency = $2 AND available >= $3`,
		traderID, currency, amount)
}

func debitLockedBalance(e sqlx.Ext, traderID, currency string, amount decimal.Decimal) error {
	return guarded(e,
		`UPDATE balances
		 SET locked = locked - $3, updated_at = now()
		 WHERE trader_id = $1 AND currency = $2 AND locked >= $3`,
		traderID, currency, amount)
}

func creditBalance(e sqlx.Ext, traderID, currency string, amount decimal.Decimal) error {
	_, err := e.Exec(
		`INSERT INTO balances (trader_id, currency, available, locked, updated_at)
		 VALUES ($1, $2, $3, 0, now())
		 ON CONFLICT (trader_id, currency)
		 DO UPDATE SET available = balances.available + EXCLUDED.available, updated_at = now()`,
		traderID, currency, amount)
	return err
}

func guarded(e sqlx.Ext, query string, traderID, currency string, amount decimal.Decimal) error {
	res, err := e.Exec(query, traderID, currency, amount)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrInsufficientBalance
	}

	return nil
}
