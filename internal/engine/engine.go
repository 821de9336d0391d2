package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"exchange/models"
)

// Engine matches incoming orders against per-pair order books and settles
// the resulting trades. All order-processing operations for one pair run
// under that pair's mutex; different pairs proceed in parallel. The book is
// only mutated after the unit of work has committed, so a failed
// transaction leaves the book exactly as it was.
type Engine struct {
	store  Store
	pairs  PairRepo
	settle Settlement
	sink   EventSink
	logger *logrus.Logger

	mu          sync.Mutex
	books       map[string]*pairBook
	initialized bool
}

type pairBook struct {
	mu   sync.Mutex
	book *OrderBook
}

type Result struct {
	Order  *models.Order   `json:"order"`
	Trades []*models.Trade `json:"trades"`
}

type fill struct {
	maker *models.Order
	qty   decimal.Decimal
	price decimal.Decimal
}

func NewEngine(store Store, pairs PairRepo, sink EventSink, logger *logrus.Logger) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{
		store:  store,
		pairs:  pairs,
		sink:   sink,
		logger: logger,
		books:  make(map[string]*pairBook),
	}
}

// Initialize rebuilds the order books from persistence. Open and partially
// filled orders arrive in ascending creation-time order, so re-running it
// against the same set reproduces an identical book. Safe to call more
// than once; only the first call does work.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	orders, err := e.store.LoadOpenOrders()
	if err != nil {
		return fmt.Errorf("load open orders: %w", err)
	}

	for _, o := range orders {
		// only limit orders ever rest; anything else in an open state is a
		// damaged row and must not become a price level
		if o.Type != models.TypeLimit {
			e.logger.
				WithField("order_id", o.ID).
				WithField("type", o.Type).
				Warn("non-limit order in open state, not restored to the book")
			continue
		}
		pb := e.books[o.PairID]
		if pb == nil {
			pb = &pairBook{book: NewOrderBook(o.PairID)}
			e.books[o.PairID] = pb
		}
		pb.book.Insert(o)
	}

	e.initialized = true
	e.logger.WithField("orders", len(orders)).Info("order books rebuilt")

	return nil
}

// ProcessOrder validates the order, dispatches by type and returns the
// final order state together with any executed trades.
func (e *Engine) ProcessOrder(order *models.Order) (*Result, error) {
	pair, err := e.validate(order)
	if err != nil {
		return nil, err
	}

	pb := e.pairBook(order.PairID)
	pb.mu.Lock()
	defer pb.mu.Unlock()

	return e.processLocked(pair, pb, order)
}

func (e *Engine) processLocked(pair *Pair, pb *pairBook, order *models.Order) (*Result, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}

	if order.IsConditional() {
		return e.storeConditional(pair, order)
	}

	fills := e.plan(pb.book, order)
	return e.execute(pair, pb, order, fills, nil)
}

// plan walks the opposite side of the book from best price outward and
// decides which resting orders the incoming one would consume. The book is
// sorted, so limit matching stops at the first incompatible price. Nothing
// is mutated here.
func (e *Engine) plan(book *OrderBook, order *models.Order) []fill {
	var fills []fill

	side := book.bids
	if order.Side == models.SideBuy {
		side = book.asks
	}

	remaining := order.RemainingQuantity()
	for _, id := range side {
		if !remaining.IsPositive() {
			break
		}
		maker := book.orders[id]
		if order.Type == models.TypeLimit {
			if order.Side == models.SideBuy && maker.Price.GreaterThan(order.Price) {
				break
			}
			if order.Side == models.SideSell && maker.Price.LessThan(order.Price) {
				break
			}
		}
		qty := decimal.Min(remaining, maker.RemainingQuantity())
		// execution price is always the resting (maker) order's price
		fills = append(fills, fill{maker: maker, qty: qty, price: maker.Price})
		remaining = remaining.Sub(qty)
	}

	return fills
}

// execute applies a match plan inside one unit of work: order rows, trade
// rows and balance transfers commit together or not at all. A non-nil
// prepare runs first inside the same transaction, so a conditional-order
// conversion rolls back together with a failed match. Book mutation
// happens strictly after commit.
func (e *Engine) execute(pair *Pair, pb *pairBook, order *models.Order, fills []fill, prepare func(Tx) error) (*Result, error) {
	tx, err := e.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}

	if prepare != nil {
		if err := prepare(tx); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// stored orders (triggered conditionals) already have a row and a lock
	stored := order.TriggeredAt != nil

	work := *order
	makers := make([]*models.Order, len(fills))
	for i := range fills {
		m := *fills[i].maker
		makers[i] = &m
	}

	if !stored && work.Type == models.TypeLimit {
		currency, amount := reservation(pair, &work)
		if err := tx.LockBalance(work.TraderID, currency, amount); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("lock %s %s: %w", amount, currency, err)
		}
		work.RemainingLock = amount
	}

	now := time.Now().UTC()
	trades := make([]*models.Trade, 0, len(fills))
	for i, f := range fills {
		m := makers[i]

		trade := &models.Trade{
			ID:          uuid.NewString(),
			PairID:      pair.Symbol,
			Price:       f.price,
			Quantity:    f.qty,
			QuoteAmount: f.price.Mul(f.qty),
			CreatedAt:   now,
		}

		buy, sell := m, &work
		if work.Side == models.SideBuy {
			buy, sell = &work, m
		}
		trade.BuyOrderID, trade.BuyerID = buy.ID, buy.TraderID
		trade.SellOrderID, trade.SellerID = sell.ID, sell.TraderID

		if err := e.settle.Execute(tx, pair, trade, buy, sell, work.Side); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("settle trade: %w", err)
		}

		work.FilledQuantity = work.FilledQuantity.Add(f.qty)
		m.FilledQuantity = m.FilledQuantity.Add(f.qty)
		m.Status = models.StatusPartiallyFilled
		if !m.RemainingQuantity().IsPositive() {
			m.Status = models.StatusFilled
			if m.RemainingLock.IsPositive() {
				cur, _ := reservation(pair, m)
				if err := tx.ReleaseBalance(m.TraderID, cur, m.RemainingLock); err != nil {
					tx.Rollback()
					return nil, fmt.Errorf("release maker reservation: %w", err)
				}
				m.RemainingLock = decimal.Zero
			}
		}
		if err := tx.UpdateOrder(m); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("update maker order: %w", err)
		}

		trades = append(trades, trade)
	}

	switch {
	case !work.RemainingQuantity().IsPositive():
		work.Status = models.StatusFilled
	case work.Type == models.TypeMarket:
		// unfilled market remainder is never placed on the book
		work.Status = models.StatusCancelled
	case work.FilledQuantity.IsPositive():
		work.Status = models.StatusPartiallyFilled
	default:
		work.Status = models.StatusOpen
	}

	if work.IsTerminal() && work.RemainingLock.IsPositive() {
		currency, _ := reservation(pair, &work)
		if err := tx.ReleaseBalance(work.TraderID, currency, work.RemainingLock); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("release taker reservation: %w", err)
		}
		work.RemainingLock = decimal.Zero
	}

	if stored {
		err = tx.UpdateOrder(&work)
	} else {
		err = tx.CreateOrder(&work)
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit unit of work: %w", err)
	}

	// commit succeeded: now the book may change
	for i, f := range fills {
		*f.maker = *makers[i]
		if f.maker.Status == models.StatusFilled {
			pb.book.Remove(f.maker.ID)
		}
	}
	*order = work
	if order.Status == models.StatusOpen || order.Status == models.StatusPartiallyFilled {
		pb.book.Insert(order)
	}

	e.sink.OrderProcessed(order, trades)
	if len(trades) > 0 {
		e.sink.TradesExecuted(pair.Symbol, trades)
	}

	return &Result{Order: order, Trades: trades}, nil
}

// storeConditional persists a conditional order as pending. It stays
// invisible to the book until the monitor triggers it.
func (e *Engine) storeConditional(pair *Pair, order *models.Order) (*Result, error) {
	tx, err := e.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}

	work := *order
	if work.Type == models.TypeStopLimit {
		currency, amount := reservation(pair, &work)
		if err := tx.LockBalance(work.TraderID, currency, amount); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("lock %s %s: %w", amount, currency, err)
		}
		work.RemainingLock = amount
	}

	if err := tx.CreateOrder(&work); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit unit of work: %w", err)
	}

	*order = work
	e.sink.OrderProcessed(order, nil)

	return &Result{Order: order}, nil
}

// CancelOrder cancels an open, partially filled or pending order owned by
// traderID and releases the unspent reservation. Returns the released
// amount.
func (e *Engine) CancelOrder(orderID, traderID string) (decimal.Decimal, error) {
	o, err := e.store.GetOrder(orderID)
	if err != nil {
		return decimal.Zero, err
	}
	if o.TraderID != traderID {
		return decimal.Zero, ErrNotOrderOwner
	}

	pair, err := e.pairs.Load(o.PairID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPair, o.PairID)
	}

	pb := e.pairBook(o.PairID)
	pb.mu.Lock()
	defer pb.mu.Unlock()

	// Re-read under the pair lock so a concurrent fill that won the race is
	// observed; exactly one of cancel or fill takes effect.
	if live := pb.book.Get(orderID); live != nil {
		o = live
	} else {
		if o, err = e.store.GetOrder(orderID); err != nil {
			return decimal.Zero, err
		}
	}

	if !o.IsCancellable() {
		return decimal.Zero, ErrOrderNotCancellable
	}

	released := o.RemainingLock
	work := *o
	work.Status = models.StatusCancelled
	work.RemainingLock = decimal.Zero

	tx, err := e.store.Begin()
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin unit of work: %w", err)
	}
	if released.IsPositive() {
		currency, _ := reservation(pair, o)
		if err := tx.ReleaseBalance(traderID, currency, released); err != nil {
			tx.Rollback()
			return decimal.Zero, fmt.Errorf("release reservation: %w", err)
		}
	}
	if err := tx.UpdateOrder(&work); err != nil {
		tx.Rollback()
		return decimal.Zero, fmt.Errorf("persist order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("commit unit of work: %w", err)
	}

	*o = work
	pb.book.Remove(orderID)

	e.sink.OrderCancelled(orderID, traderID, o.PairID)

	return released, nil
}

// GetOrderBookSnapshot returns aggregated price levels for a pair.
func (e *Engine) GetOrderBookSnapshot(pairID string, depth int) (*BookSnapshot, error) {
	if _, err := e.pairs.Load(pairID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, pairID)
	}
	if depth <= 0 {
		depth = 20
	}

	pb := e.pairBook(pairID)
	pb.mu.Lock()
	defer pb.mu.Unlock()

	return pb.book.Snapshot(depth), nil
}

// GetOrderBookStats returns resting volume/value totals and buy pressure.
func (e *Engine) GetOrderBookStats(pairID string) (*BookStats, error) {
	if _, err := e.pairs.Load(pairID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, pairID)
	}

	pb := e.pairBook(pairID)
	pb.mu.Lock()
	defer pb.mu.Unlock()

	return pb.book.Stats(), nil
}

func (e *Engine) pairBook(pairID string) *pairBook {
	e.mu.Lock()
	defer e.mu.Unlock()

	pb := e.books[pairID]
	if pb == nil {
		pb = &pairBook{book: NewOrderBook(pairID)}
		e.books[pairID] = pb
	}
	return pb
}

func (e *Engine) validate(order *models.Order) (*Pair, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: order is nil", ErrInvalidOrder)
	}
	if order.Side != models.SideBuy && order.Side != models.SideSell {
		return nil, fmt.Errorf("%w: side %q", ErrInvalidOrder, order.Side)
	}
	if !order.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}

	// status, fill progress, reservations and the trigger timestamp are
	// engine-owned; a submitted order claiming any of them is forged
	if order.Status != "" {
		return nil, fmt.Errorf("%w: status is assigned by the engine", ErrInvalidOrder)
	}
	if !order.FilledQuantity.IsZero() || !order.RemainingLock.IsZero() {
		return nil, fmt.Errorf("%w: fill state is assigned by the engine", ErrInvalidOrder)
	}
	if order.TriggeredAt != nil {
		return nil, fmt.Errorf("%w: trigger state is assigned by the engine", ErrInvalidOrder)
	}

	switch order.Type {
	case models.TypeMarket:
	case models.TypeLimit, models.TypeStopLimit:
		if !order.Price.IsPositive() {
			return nil, fmt.Errorf("%w: %s order requires a price", ErrInvalidOrder, order.Type)
		}
	case models.TypeStopLoss, models.TypeTakeProfit:
	default:
		return nil, fmt.Errorf("%w: type %q", ErrInvalidOrder, order.Type)
	}
	if order.IsConditional() && !order.TriggerPrice.IsPositive() {
		return nil, fmt.Errorf("%w: %s order requires a trigger price", ErrInvalidOrder, order.Type)
	}

	pair, err := e.pairs.Load(order.PairID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, order.PairID)
	}
	if !pair.Active {
		return nil, fmt.Errorf("%w: %s", ErrPairInactive, order.PairID)
	}

	return pair, nil
}

// reservation reports the currency a side locks and the amount a fresh
// order reserves: quote at limit price for buys, base quantity for sells.
func reservation(pair *Pair, o *models.Order) (string, decimal.Decimal) {
	if o.Side == models.SideBuy {
		return pair.QuoteCurrency, o.Price.Mul(o.Quantity)
	}
	return pair.BaseCurrency, o.Quantity
}
