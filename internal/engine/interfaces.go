package engine

import (
	"exchange/models"

	"github.com/shopspring/decimal"
)

//go:generate mockery --case=snake --name=Store
//go:generate mockery --case=snake --name=Tx
//go:generate mockery --case=snake --name=PairRepo

// Store is the system of record for orders and trades. The engine never
// talks to a concrete database; the postgres implementation lives in
// internal/repository/postgres.
type Store interface {
	// LoadOpenOrders returns every open/partially_filled order in
	// ascending creation-time order.
	LoadOpenOrders() ([]*models.Order, error)
	PendingConditional(pairID string) ([]*models.Order, error)
	GetOrder(id string) (*models.Order, error)
	Begin() (Tx, error)
}

// Tx is one atomic unit of work. Order updates, trade inserts and balance
// transfers for a single match all go through the same Tx; either all of
// them commit or none do.
type Tx interface {
	CreateOrder(o *models.Order) error
	UpdateOrder(o *models.Order) error
	// TriggerOrder converts a pending conditional order, guarded by the
	// order still being pending. Returns ErrAlreadyTriggered otherwise.
	TriggerOrder(o *models.Order) error
	CreateTrade(t *models.Trade) error

	LockBalance(traderID, currency string, amount decimal.Decimal) error
	ReleaseBalance(traderID, currency string, amount decimal.Decimal) error
	CreditBalance(traderID, currency string, amount decimal.Decimal) error
	DebitBalance(traderID, currency string, amount decimal.Decimal) error
	DebitLockedBalance(traderID, currency string, amount decimal.Decimal) error

	Commit() error
	Rollback() error
}

// Pair is the engine's view of a trading pair's configuration.
type Pair struct {
	Symbol        string
	BaseCurrency  string
	QuoteCurrency string
	MakerFee      decimal.Decimal
	TakerFee      decimal.Decimal
	Active        bool
}

type PairRepo interface {
	Load(symbol string) (*Pair, error)
}
