package usecasees

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"exchange/internal/controllers"
	"exchange/internal/repository/postgres"
	"exchange/models"
)

//go:generate mockery --case=snake --name=ConditionalChecker

// ConditionalChecker evaluates pending conditional orders for a pair
// against a price.
type ConditionalChecker interface {
	CheckConditionalOrders(pairID string, price decimal.Decimal) ([]*models.Order, error)
}

// monitorUseCase polls the price feed for a symbol and drives the engine's
// conditional-order evaluation with each tick. Every observed price is
// also recorded for audit; when the feed is down the last recorded price
// keeps the evaluation going.
type monitorUseCase struct {
	checker   ConditionalChecker
	priceFeed controllers.PriceFeed
	priceRepo postgres.PriceRepo

	interval time.Duration
	done     chan bool

	logger *logrus.Logger
}

func NewMonitorUseCase(
	checker ConditionalChecker,
	priceFeed controllers.PriceFeed,
	priceRepo postgres.PriceRepo,
	interval time.Duration,
	logger *logrus.Logger,
) *monitorUseCase {
	return &monitorUseCase{
		checker:   checker,
		priceFeed: priceFeed,
		priceRepo: priceRepo,
		interval:  interval,
		done:      make(chan bool),
		logger:    logger,
	}
}

func (u *monitorUseCase) Monitoring(symbol string) error {
	ticker := time.NewTicker(u.interval)

	go func() {
		for {
			select {
			case <-u.done:
				ticker.Stop()
				return
			case <-ticker.C:
				price, fresh := u.currentPrice(symbol)
				if price == nil {
					continue
				}

				if fresh {
					if err := u.priceRepo.Store(&models.Price{
						Symbol:    symbol,
						Price:     *price,
						CreatedAt: time.Now().UTC(),
					}); err != nil {
						u.logger.
							WithError(err).
							WithField("symbol", symbol).
							Error("store price tick failed")
					}
				}

				triggered, err := u.checker.CheckConditionalOrders(symbol, *price)
				if err != nil {
					u.logger.
						WithError(err).
						WithField("symbol", symbol).
						Error("conditional order evaluation failed")
					continue
				}

				if len(triggered) > 0 {
					u.logger.
						WithField("symbol", symbol).
						WithField("count", len(triggered)).
						Info("conditional orders triggered")
				}
			}
		}
	}()

	return nil
}

// currentPrice asks the feed first and falls back to the last stored tick,
// reporting whether the price is fresh.
func (u *monitorUseCase) currentPrice(symbol string) (*decimal.Decimal, bool) {
	price, err := u.priceFeed.LastPrice(symbol)
	if err == nil {
		return &price, true
	}

	u.logger.
		WithError(err).
		WithField("symbol", symbol).
		Error("price feed request failed")

	last, lastErr := u.priceRepo.GetLast(symbol)
	if lastErr != nil {
		u.logger.
			WithError(lastErr).
			WithField("symbol", symbol).
			Error("no stored price to fall back on")
		return nil, false
	}

	return &last.Price, false
}

func (u *monitorUseCase) Stop() {
	close(u.done)
}
