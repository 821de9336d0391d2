package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"exchange/models"
)

// OrderBook holds the resting orders of one trading pair. Orders live in an
// arena keyed by ID; bids and asks are ordered ID lists into that arena
// (bids: price desc then time asc, asks: price asc then time asc). The book
// is not safe for concurrent use; the engine serializes access per pair.
type OrderBook struct {
	pairID string
	orders map[string]*models.Order
	bids   []string
	asks   []string
}

type BookLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Orders   int             `json:"orders"`
}

type BookSnapshot struct {
	PairID   string          `json:"pairId"`
	Bids     []BookLevel     `json:"bids"`
	Asks     []BookLevel     `json:"asks"`
	Spread   decimal.Decimal `json:"spread"`
	MidPrice decimal.Decimal `json:"midPrice"`
}

type BookStats struct {
	PairID      string          `json:"pairId"`
	BidVolume   decimal.Decimal `json:"bidVolume"`
	AskVolume   decimal.Decimal `json:"askVolume"`
	BidValue    decimal.Decimal `json:"bidValue"`
	AskValue    decimal.Decimal `json:"askValue"`
	BuyPressure decimal.Decimal `json:"buyPressure"`
}

func NewOrderBook(pairID string) *OrderBook {
	return &OrderBook{
		pairID: pairID,
		orders: make(map[string]*models.Order),
	}
}

// Insert places a resting order, keeping price-time priority. Ties at the
// same price go to the earlier creation time, then to the smaller ID so
// ordering stays total.
func (b *OrderBook) Insert(o *models.Order) {
	b.orders[o.ID] = o

	side := &b.asks
	if o.Side == models.SideBuy {
		side = &b.bids
	}

	idx := sort.Search(len(*side), func(i int) bool {
		return b.before(o, b.orders[(*side)[i]])
	})

	*side = append(*side, "")
	copy((*side)[idx+1:], (*side)[idx:])
	(*side)[idx] = o.ID
}

func (b *OrderBook) before(a, c *models.Order) bool {
	if !a.Price.Equal(c.Price) {
		if a.Side == models.SideBuy {
			return a.Price.GreaterThan(c.Price)
		}
		return a.Price.LessThan(c.Price)
	}
	if !a.CreatedAt.Equal(c.CreatedAt) {
		return a.CreatedAt.Before(c.CreatedAt)
	}
	return a.ID < c.ID
}

// Remove takes a resting order out of the book. Returns false when the
// order is not resting.
func (b *OrderBook) Remove(orderID string) bool {
	o, ok := b.orders[orderID]
	if !ok {
		return false
	}

	side := &b.asks
	if o.Side == models.SideBuy {
		side = &b.bids
	}
	for i, id := range *side {
		if id == orderID {
			*side = append((*side)[:i], (*side)[i+1:]...)
			break
		}
	}

	delete(b.orders, orderID)
	return true
}

// Get returns the resting order with the given ID, or nil.
func (b *OrderBook) Get(orderID string) *models.Order {
	return b.orders[orderID]
}

func (b *OrderBook) BestBid() *models.Order {
	if len(b.bids) == 0 {
		return nil
	}
	return b.orders[b.bids[0]]
}

func (b *OrderBook) BestAsk() *models.Order {
	if len(b.asks) == 0 {
		return nil
	}
	return b.orders[b.asks[0]]
}

func (b *OrderBook) Len() int {
	return len(b.orders)
}

// Snapshot aggregates resting orders into price levels, at most depth
// levels per side.
func (b *OrderBook) Snapshot(depth int) *BookSnapshot {
	snap := &BookSnapshot{
		PairID: b.pairID,
		Bids:   b.levels(b.bids, depth),
		Asks:   b.levels(b.asks, depth),
	}

	bid, ask := b.BestBid(), b.BestAsk()
	if bid != nil && ask != nil {
		snap.Spread = ask.Price.Sub(bid.Price)
		snap.MidPrice = ask.Price.Add(bid.Price).Div(decimal.NewFromInt(2))
	}

	return snap
}

func (b *OrderBook) levels(side []string, depth int) []BookLevel {
	out := make([]BookLevel, 0, depth)

	for _, id := range side {
		o := b.orders[id]
		if n := len(out); n > 0 && out[n-1].Price.Equal(o.Price) {
			out[n-1].Quantity = out[n-1].Quantity.Add(o.RemainingQuantity())
			out[n-1].Orders++
			continue
		}
		if len(out) == depth {
			break
		}
		out = append(out, BookLevel{
			Price:    o.Price,
			Quantity: o.RemainingQuantity(),
			Orders:   1,
		})
	}

	return out
}

// Stats reports total resting volume and value per side. BuyPressure is
// bidVolume/(bidVolume+askVolume) and defaults to 0.5 on an empty book.
func (b *OrderBook) Stats() *BookStats {
	stats := &BookStats{PairID: b.pairID}

	for _, id := range b.bids {
		o := b.orders[id]
		rem := o.RemainingQuantity()
		stats.BidVolume = stats.BidVolume.Add(rem)
		stats.BidValue = stats.BidValue.Add(rem.Mul(o.Price))
	}
	for _, id := range b.asks {
		o := b.orders[id]
		rem := o.RemainingQuantity()
		stats.AskVolume = stats.AskVolume.Add(rem)
		stats.AskValue = stats.AskValue.Add(rem.Mul(o.Price))
	}

	total := stats.BidVolume.Add(stats.AskVolume)
	if total.IsZero() {
		stats.BuyPressure = decimal.NewFromFloat(0.5)
	} else {
		stats.BuyPressure = stats.BidVolume.Div(total)
	}

	return stats
}
