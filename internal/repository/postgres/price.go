package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"exchange/models"
)

type PriceRepository struct {
	conn *sqlx.DB
}

func NewPriceRepository(conn *sqlx.DB) PriceRepo {
	return &PriceRepository{conn: conn}
}

func (r *PriceRepository) Store(m *models.Price) error {
	_, err := r.conn.NamedExec(
		"INSERT INTO prices (symbol, price, created_at) VALUES (:symbol, :price, :created_at)", m)
	return err
}

func (r *PriceRepository) GetLast(symbol string) (*models.Price, error) {
	var price models.Price

	if err := r.conn.QueryRowx(
		"SELECT * FROM prices WHERE symbol = $1 ORDER BY created_at DESC LIMIT 1",
		symbol).StructScan(&price); err != nil {
		return nil, err
	}

	return &price, nil
}

func (r *PriceRepository) GetByCreatedByInterval(symbol string, sTime, eTime time.Time) ([]models.Price, error) {
	var prices []models.Price

	if err := r.conn.Select(&prices,
		"SELECT * FROM prices WHERE symbol = $1 AND created_at > $2 AND created_at < $3 ORDER BY created_at ASC",
		symbol, sTime.UTC(), eTime.UTC()); err != nil {
		return nil, err
	}

	return prices, nil
}
