package mongo

import (
	"github.com/shopspring/decimal"

	"exchange/internal/engine"
	"exchange/internal/repository/mongo/structs"
)

// PairSource adapts the settings collection to the engine's PairRepo.
type PairSource struct {
	repo SettingsRepo
}

func NewPairSource(repo SettingsRepo) *PairSource {
	return &PairSource{repo: repo}
}

func (s *PairSource) Load(symbol string) (*engine.Pair, error) {
	settings, err := s.repo.Load(symbol)
	if err != nil {
		return nil, err
	}

	return &engine.Pair{
		Symbol:        settings.Symbol,
		BaseCurrency:  settings.BaseCurrency,
		QuoteCurrency: settings.QuoteCurrency,
		MakerFee:      decimal.NewFromFloat(settings.MakerFee),
		TakerFee:      decimal.NewFromFloat(settings.TakerFee),
		Active:        settings.Status == structs.Enabled.ToString(),
	}, nil
}
