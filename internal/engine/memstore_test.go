package engine_test

import (
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"exchange/internal/engine"
	"exchange/models"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory engine.Store. Begin copies the whole state into
// the transaction; Commit swaps the copy back in, so a rolled back unit of
// work leaves the store untouched.
type memStore struct {
	mu       sync.Mutex
	orders   map[string]*models.Order
	trades   []*models.Trade
	balances map[string]map[string]*models.Balance

	failMethod string
	failCount  int
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[string]*models.Order{},
		balances: map[string]map[string]*models.Balance{},
	}
}

// failNext makes the next count calls of the named Tx method fail.
func (s *memStore) failNext(method string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMethod = method
	s.failCount = count
}

func (s *memStore) seedOrder(o *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *o
	s.orders[o.ID] = &c
}

func (s *memStore) setBalance(traderID, currency string, available, locked decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[traderID] == nil {
		s.balances[traderID] = map[string]*models.Balance{}
	}
	s.balances[traderID][currency] = &models.Balance{
		TraderID:  traderID,
		Currency:  currency,
		Available: available,
		Locked:    locked,
	}
}

func (s *memStore) balance(traderID, currency string) models.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.balances[traderID][currency]; b != nil {
		return *b
	}
	return models.Balance{TraderID: traderID, Currency: currency}
}

func (s *memStore) order(id string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.orders[id]; o != nil {
		c := *o
		return &c
	}
	return nil
}

func (s *memStore) tradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

func (s *memStore) LoadOpenOrders() ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Order
	for _, o := range s.orders {
		if o.Status == models.StatusOpen || o.Status == models.StatusPartiallyFilled {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) PendingConditional(pairID string) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Order
	for _, o := range s.orders {
		if o.PairID == pairID && o.Status == models.StatusPending && o.IsConditional() {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) GetOrder(id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, engine.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (s *memStore) Begin() (engine.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:    s,
		orders:   map[string]*models.Order{},
		balances: map[string]map[string]*models.Balance{},
		trades:   append([]*models.Trade{}, s.trades...),
	}
	for id, o := range s.orders {
		c := *o
		tx.orders[id] = &c
	}
	for trader, byCur := range s.balances {
		tx.balances[trader] = map[string]*models.Balance{}
		for cur, b := range byCur {
			c := *b
			tx.balances[trader][cur] = &c
		}
	}
	return tx, nil
}

type memTx struct {
	store    *memStore
	orders   map[string]*models.Order
	trades   []*models.Trade
	balances map[string]map[string]*models.Balance
}

func (t *memTx) fail(method string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.failMethod == method && t.store.failCount != 0 {
		if t.store.failCount > 0 {
			t.store.failCount--
		}
		return errInjected
	}
	return nil
}

func (t *memTx) bal(traderID, currency string) *models.Balance {
	if t.balances[traderID] == nil {
		t.balances[traderID] = map[string]*models.Balance{}
	}
	b := t.balances[traderID][currency]
	if b == nil {
		b = &models.Balance{TraderID: traderID, Currency: currency}
		t.balances[traderID][currency] = b
	}
	return b
}

func (t *memTx) CreateOrder(o *models.Order) error {
	if err := t.fail("CreateOrder"); err != nil {
		return err
	}
	c := *o
	t.orders[o.ID] = &c
	return nil
}

func (t *memTx) UpdateOrder(o *models.Order) error {
	if err := t.fail("UpdateOrder"); err != nil {
		return err
	}
	c := *o
	t.orders[o.ID] = &c
	return nil
}

func (t *memTx) TriggerOrder(o *models.Order) error {
	if err := t.fail("TriggerOrder"); err != nil {
		return err
	}
	prev, ok := t.orders[o.ID]
	if !ok || prev.Status != models.StatusPending {
		return engine.ErrAlreadyTriggered
	}
	c := *o
	t.orders[o.ID] = &c
	return nil
}

func (t *memTx) CreateTrade(tr *models.Trade) error {
	if err := t.fail("CreateTrade"); err != nil {
		return err
	}
	c := *tr
	t.trades = append(t.trades, &c)
	return nil
}

func (t *memTx) LockBalance(traderID, currency string, amount decimal.Decimal) error {
	if err := t.fail("LockBalance"); err != nil {
		return err
	}
	b := t.bal(traderID, currency)
	if b.Available.LessThan(amount) {
		return engine.ErrInsufficientBalance
	}
	b.Available = b.Available.Sub(amount)
	b.Locked = b.Locked.Add(amount)
	return nil
}

func (t *memTx) ReleaseBalance(traderID, currency string, amount decimal.Decimal) error {
	if err := t.fail("ReleaseBalance"); err != nil {
		return err
	}
	b := t.bal(traderID, currency)
	if b.Locked.LessThan(amount) {
		return engine.ErrInsufficientBalance
	}
	b.Locked = b.Locked.Sub(amount)
	b.Available = b.Available.Add(amount)
	return nil
}

func (t *memTx) CreditBalance(traderID, currency string, amount decimal.Decimal) error {
	if err := t.fail("CreditBalance"); err != nil {
		return err
	}
	b := t.bal(traderID, currency)
	b.Available = b.Available.Add(amount)
	return nil
}

func (t *memTx) DebitBalance(traderID, currency string, amount decimal.Decimal) error {
	if err := t.fail("DebitBalance"); err != nil {
		return err
	}
	b := t.bal(traderID, currency)
	if b.Available.LessThan(amount) {
		return engine.ErrInsufficientBalance
	}
	b.Available = b.Available.Sub(amount)
	return nil
}

func (t *memTx) DebitLockedBalance(traderID, currency string, amount decimal.Decimal) error {
	if err := t.fail("DebitLockedBalance"); err != nil {
		return err
	}
	b := t.bal(traderID, currency)
	if b.Locked.LessThan(amount) {
		return engine.ErrInsufficientBalance
	}
	b.Locked = b.Locked.Sub(amount)
	return nil
}

func (t *memTx) Commit() error {
	if err := t.fail("Commit"); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.orders = t.orders
	t.store.trades = t.trades
	t.store.balances = t.balances
	return nil
}

func (t *memTx) Rollback() error {
	return nil
}

type memPairs struct {
	pairs map[string]*engine.Pair
}

func (p memPairs) Load(symbol string) (*engine.Pair, error) {
	pair, ok := p.pairs[symbol]
	if !ok {
		return nil, errors.New("pair not found")
	}
	return pair, nil
}

// recordingSink collects emitted events for assertions.
type recordingSink struct {
	mu        sync.Mutex
	processed []*models.Order
	trades    []*models.Trade
	triggered []*models.Order
	cancelled []string
}

func (s *recordingSink) OrderProcessed(order *models.Order, trades []*models.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *order
	s.processed = append(s.processed, &c)
}

func (s *recordingSink) TradesExecuted(pairID string, trades []*models.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trades...)
}

func (s *recordingSink) OrderTriggered(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *order
	s.triggered = append(s.triggered, &c)
}

func (s *recordingSink) OrderCancelled(orderID, traderID, pairID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, orderID)
}

func (s *recordingSink) cancelledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancelled)
}

func (s *recordingSink) triggeredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggered)
}
