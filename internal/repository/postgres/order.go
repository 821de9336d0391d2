package postgres

import (
	"github.com/jmoiron/sqlx"

	"exchange/internal/engine"
	"exchange/models"
)

func insertOrder(e sqlx.Ext, o *models.Order) error {
	_, err := sqlx.NamedExec(e,
		`INSERT INTO orders (id, trader_id, pair_id, side, type, price, trigger_price, quantity, filled_quantity, remaining_lock, status, created_at, triggered_at)
		 VALUES (:id, :trader_id, :pair_id, :side, :type, :price, :trigger_price, :quantity, :filled_quantity, :remaining_lock, :status, :created_at, :triggered_at)`,
		o)
	return err
}

func updateOrder(e sqlx.Ext, o *models.Order) error {
	_, err := sqlx.NamedExec(e,
		`UPDATE orders
		 SET type = :type, price = :price, filled_quantity = :filled_quantity, remaining_lock = :remaining_lock, status = :status, triggered_at = :triggered_at
		 WHERE id = :id`,
		o)
	return err
}

// triggerOrder converts a pending conditional order; the status guard in
// the WHERE clause makes the conversion happen at most once even across
// processes.
func triggerOrder(e sqlx.Ext, o *models.Order) error {
	res, err := sqlx.NamedExec(e,
		`UPDATE orders
		 SET type = :type, price = :price, status = :status, triggered_at = :triggered_at
		 WHERE id = :id AND status = 'pending'`,
		o)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrAlreadyTriggered
	}

	return nil
}
