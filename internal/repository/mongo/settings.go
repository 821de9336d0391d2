package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"exchange/internal/repository/mongo/structs"
)

type SettingsRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewSettingsRepository(conn *mongo.Client) *SettingsRepository {
	collection := conn.Database("settings").Collection("pairs")

	return &SettingsRepository{conn: conn, collection: collection}
}

func (r *SettingsRepository) SetDefault() error {
	pairs := []structs.PairSettings{
		{
			Symbol:        "BTCUSDT",
			BaseCurrency:  "BTC",
			QuoteCurrency: "USDT",
			MakerFee:      0.001,
			TakerFee:      0.002,
			Status:        structs.Enabled.ToString(),
		},
		{
			Symbol:        "ETHUSDT",
			BaseCurrency:  "ETH",
			QuoteCurrency: "USDT",
			MakerFee:      0.001,
			TakerFee:      0.002,
			Status:        structs.Enabled.ToString(),
		},
		{
			Symbol:        "ETHBTC",
			BaseCurrency:  "ETH",
			QuoteCurrency: "BTC",
			MakerFee:      0.0015,
			TakerFee:      0.0025,
			Status:        structs.Disabled.ToString(),
		},
	}

	for _, pair := range pairs {
		check, err := r.Load(pair.Symbol)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}

		if primitive.ObjectID.IsZero(check.ID) {
			_, err := r.collection.InsertOne(context.TODO(), pair)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *SettingsRepository) Load(symbol string) (*structs.PairSettings, error) {
	var result structs.PairSettings

	if err := r.collection.FindOne(context.TODO(), bson.D{{Key: "symbol", Value: symbol}}).Decode(&result); err != nil {
		return &result, err
	}

	return &result, nil
}

func (r *SettingsRepository) List() ([]structs.PairSettings, error) {
	cursor, err := r.collection.Find(context.TODO(), bson.D{})
	if err != nil {
		return nil, err
	}

	var result []structs.PairSettings
	if err := cursor.All(context.TODO(), &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SettingsRepository) UpdateStatus(id primitive.ObjectID, status structs.PairStatus) error {
	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}},
	)
	if err != nil {
		return err
	}

	return nil
}
