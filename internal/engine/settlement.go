package engine

import (
	"fmt"

	"exchange/models"
)

// Settlement computes fees for a matched pair of orders and issues the
// balance transfers between the counterparties. Everything runs inside the
// caller's unit of work; the caller owns commit and rollback.
type Settlement struct{}

// Execute moves base from seller to buyer and quote from buyer to seller
// for one trade, charging each side its fee in the currency it receives.
// The maker rate applies to the resting side, the taker rate to takerSide.
// Buy-side reservations are debited from locked funds and tracked on
// Order.RemainingLock so later release is exact.
func (s Settlement) Execute(tx Tx, pair *Pair, trade *models.Trade, buy, sell *models.Order, takerSide models.OrderSide) error {
	buyerRate, sellerRate := pair.MakerFee, pair.TakerFee
	if takerSide == models.SideBuy {
		buyerRate, sellerRate = pair.TakerFee, pair.MakerFee
	}

	buyerFee := trade.Quantity.Mul(buyerRate)
	sellerFee := trade.QuoteAmount.Mul(sellerRate)

	if takerSide == models.SideBuy {
		trade.TakerFee = buyerFee
		trade.MakerFee = sellerFee
	} else {
		trade.TakerFee = sellerFee
		trade.MakerFee = buyerFee
	}

	// Buyer pays quote, receives base net of fee.
	if buy.RemainingLock.IsPositive() {
		if err := tx.DebitLockedBalance(buy.TraderID, pair.QuoteCurrency, trade.QuoteAmount); err != nil {
			return fmt.Errorf("debit buyer locked %s: %w", pair.QuoteCurrency, err)
		}
		buy.RemainingLock = buy.RemainingLock.Sub(trade.QuoteAmount)
	} else {
		if err := tx.DebitBalance(buy.TraderID, pair.QuoteCurrency, trade.QuoteAmount); err != nil {
			return fmt.Errorf("debit buyer %s: %w", pair.QuoteCurrency, err)
		}
	}
	if err := tx.CreditBalance(buy.TraderID, pair.BaseCurrency, trade.Quantity.Sub(buyerFee)); err != nil {
		return fmt.Errorf("credit buyer %s: %w", pair.BaseCurrency, err)
	}

	// Seller pays base, receives quote net of fee.
	if sell.RemainingLock.IsPositive() {
		if err := tx.DebitLockedBalance(sell.TraderID, pair.BaseCurrency, trade.Quantity); err != nil {
			return fmt.Errorf("debit seller locked %s: %w", pair.BaseCurrency, err)
		}
		sell.RemainingLock = sell.RemainingLock.Sub(trade.Quantity)
	} else {
		if err := tx.DebitBalance(sell.TraderID, pair.BaseCurrency, trade.Quantity); err != nil {
			return fmt.Errorf("debit seller %s: %w", pair.BaseCurrency, err)
		}
	}
	if err := tx.CreditBalance(sell.TraderID, pair.QuoteCurrency, trade.QuoteAmount.Sub(sellerFee)); err != nil {
		return fmt.Errorf("credit seller %s: %w", pair.QuoteCurrency, err)
	}

	return tx.CreateTrade(trade)
}
