package postgres

import (
	"time"

	"exchange/models"
)

//go:generate mockery --case=snake --name=PriceRepo

type PriceRepo interface {
	Store(m *models.Price) error
	GetLast(symbol string) (*models.Price, error)
	GetByCreatedByInterval(symbol string, sTime, eTime time.Time) ([]models.Price, error)
}
