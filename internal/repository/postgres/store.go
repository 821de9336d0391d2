package postgres

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"exchange/internal/engine"
	"exchange/models"
)

// Store is the postgres system of record for orders, trades and balances.
type Store struct {
	conn *sqlx.DB
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) LoadOpenOrders() ([]*models.Order, error) {
	var orders []*models.Order

	if err := s.conn.Select(&orders,
		"SELECT * FROM orders WHERE status IN ('open', 'partially_filled') ORDER BY created_at ASC, id ASC"); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Store) PendingConditional(pairID string) ([]*models.Order, error) {
	var orders []*models.Order

	if err := s.conn.Select(&orders,
		"SELECT * FROM orders WHERE pair_id = $1 AND status = 'pending' AND type IN ('stop_loss', 'take_profit', 'stop_limit') ORDER BY created_at ASC, id ASC",
		pairID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Store) GetOrder(id string) (*models.Order, error) {
	var order models.Order

	if err := s.conn.QueryRowx("SELECT * FROM orders WHERE id = $1 LIMIT 1", id).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (s *Store) Begin() (engine.Tx, error) {
	tx, err := s.conn.Beginx()
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}
