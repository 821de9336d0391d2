package structs

import "go.mongodb.org/mongo-driver/bson/primitive"

type PairStatus string

const (
	Enabled  PairStatus = "enabled"
	Disabled PairStatus = "disabled"
)

func (s PairStatus) ToString() string {
	return string(s)
}

type PairSettings struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Symbol        string             `bson:"symbol"`
	BaseCurrency  string             `bson:"base_currency"`
	QuoteCurrency string             `bson:"quote_currency"`
	MakerFee      float64            `bson:"maker_fee"`
	TakerFee      float64            `bson:"taker_fee"`
	Status        string             `bson:"status"`
}
