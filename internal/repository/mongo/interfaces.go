package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"exchange/internal/repository/mongo/structs"
)

//go:generate mockery --case=snake --name=SettingsRepo

type SettingsRepo interface {
	SetDefault() error
	Load(symbol string) (*structs.PairSettings, error)
	List() ([]structs.PairSettings, error)
	UpdateStatus(id primitive.ObjectID, status structs.PairStatus) error
}
