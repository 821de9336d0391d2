package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"exchange/models"
)

// Tx is one unit of work over a database transaction. Order updates, trade
// inserts and balance transfers issued through the same Tx commit or roll
// back together.
type Tx struct {
	tx *sqlx.Tx
}

func (t *Tx) CreateOrder(o *models.Order) error {
	return insertOrder(t.tx, o)
}

func (t *Tx) UpdateOrder(o *models.Order) error {
	return updateOrder(t.tx, o)
}

func (t *Tx) TriggerOrder(o *models.Order) error {
	return triggerOrder(t.tx, o)
}

func (t *Tx) CreateTrade(tr *models.Trade) error {
	return insertTrade(t.tx, tr)
}

func (t *Tx) LockBalance(traderID, currency string, amount decimal.Decimal) error {
	return lockBalance(t.tx, traderID, currency, amount)
}

func (t *Tx) ReleaseBalance(traderID, currency string, amount decimal.Decimal) error {
	return releaseBalance(t.tx, traderID, currency, amount)
}

func (t *Tx) CreditBalance(traderID, currency string, amount decimal.Decimal) error {
	return creditBalance(t.tx, traderID, currency, amount)
}

func (t *Tx) DebitBalance(traderID, currency string, amount decimal.Decimal) error {
	return debitBalance(t.tx, traderID, currency, amount)
}

func (t *Tx) DebitLockedBalance(traderID, currency string, amount decimal.Decimal) error {
	return debitLockedBalance(t.tx, traderID, currency, amount)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
