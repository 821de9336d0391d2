package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	netHttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apiHttp "exchange/internal/api/http"
	"exchange/internal/engine"
	"exchange/internal/repository/mongo/structs"
	"exchange/models"
)

type stubEngine struct {
	processErr  error
	cancelErr   error
	snapshotErr error
	released    decimal.Decimal
}

func (s *stubEngine) ProcessOrder(order *models.Order) (*engine.Result, error) {
	if s.processErr != nil {
		return nil, s.processErr
	}
	order.ID = "order-1"
	order.Status = models.StatusOpen
	return &engine.Result{Order: order}, nil
}

func (s *stubEngine) CancelOrder(orderID, traderID string) (decimal.Decimal, error) {
	if s.cancelErr != nil {
		return decimal.Zero, s.cancelErr
	}
	return s.released, nil
}

func (s *stubEngine) GetOrderBookSnapshot(pairID string, depth int) (*engine.BookSnapshot, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return &engine.BookSnapshot{PairID: pairID}, nil
}

func (s *stubEngine) GetOrderBookStats(pairID string) (*engine.BookStats, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return &engine.BookStats{PairID: pairID}, nil
}

type stubPriceRepo struct {
	prices []models.Price
	err    error
}

func (s *stubPriceRepo) Store(m *models.Price) error {
	return nil
}

func (s *stubPriceRepo) GetLast(symbol string) (*models.Price, error) {
	if len(s.prices) == 0 {
		return nil, fmt.Errorf("no prices for %s", symbol)
	}
	return &s.prices[len(s.prices)-1], nil
}

func (s *stubPriceRepo) GetByCreatedByInterval(symbol string, sTime, eTime time.Time) ([]models.Price, error) {
	return s.prices, s.err
}

type stubSettingsRepo struct {
	known   map[string]*structs.PairSettings
	updated map[primitive.ObjectID]structs.PairStatus
}

func newStubSettings(symbols ...string) *stubSettingsRepo {
	s := &stubSettingsRepo{
		known:   map[string]*structs.PairSettings{},
		updated: map[primitive.ObjectID]structs.PairStatus{},
	}
	for _, symbol := range symbols {
		s.known[symbol] = &structs.PairSettings{
			ID:     primitive.NewObjectID(),
			Symbol: symbol,
			Status: structs.Enabled.ToString(),
		}
	}
	return s
}

func (s *stubSettingsRepo) SetDefault() error {
	return nil
}

func (s *stubSettingsRepo) Load(symbol string) (*structs.PairSettings, error) {
	settings, ok := s.known[symbol]
	if !ok {
		return &structs.PairSettings{}, mongo.ErrNoDocuments
	}
	return settings, nil
}

func (s *stubSettingsRepo) List() ([]structs.PairSettings, error) {
	var out []structs.PairSettings
	for _, settings := range s.known {
		out = append(out, *settings)
	}
	return out, nil
}

func (s *stubSettingsRepo) UpdateStatus(id primitive.ObjectID, status structs.PairStatus) error {
	s.updated[id] = status
	return nil
}

func testApp(e apiHttp.Engine) *fiber.App {
	return testAppWith(e, &stubPriceRepo{}, newStubSettings())
}

func testAppWith(e apiHttp.Engine, prices *stubPriceRepo, settings *stubSettingsRepo) *fiber.App {
	app := fiber.New()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	apiHttp.RegisterHTTPEndpoints(app, e, prices, settings, logger)
	return app
}

func TestHealthCheck(t *testing.T) {
	app := testApp(&stubEngine{})

	req := httptest.NewRequest(netHttp.MethodGet, "/api/healthcheck", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSubmitOrder(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		app := testApp(&stubEngine{})

		body, err := json.Marshal(models.Order{
			TraderID: "t1",
			PairID:   "BTCUSDT",
			Side:     models.SideBuy,
			Type:     models.TypeLimit,
			Price:    decimal.NewFromInt(10),
			Quantity: decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		req := httptest.NewRequest(netHttp.MethodPost, "/api/order", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result engine.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "order-1", result.Order.ID)
	})

	t.Run("validation failure", func(t *testing.T) {
		app := testApp(&stubEngine{
			processErr: fmt.Errorf("%w: quantity must be positive", engine.ErrInvalidOrder),
		})

		req := httptest.NewRequest(netHttp.MethodPost, "/api/order", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad payload", func(t *testing.T) {
		app := testApp(&stubEngine{})

		req := httptest.NewRequest(netHttp.MethodPost, "/api/order", bytes.NewReader([]byte(`not json`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("released amount", func(t *testing.T) {
		app := testApp(&stubEngine{released: decimal.NewFromInt(20)})

		req := httptest.NewRequest(netHttp.MethodDelete, "/api/order/order-1?traderId=t1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		app := testApp(&stubEngine{cancelErr: engine.ErrOrderNotFound})

		req := httptest.NewRequest(netHttp.MethodDelete, "/api/order/missing?traderId=t1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("not cancellable", func(t *testing.T) {
		app := testApp(&stubEngine{cancelErr: engine.ErrOrderNotCancellable})

		req := httptest.NewRequest(netHttp.MethodDelete, "/api/order/order-1?traderId=t1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestOrderBookEndpoints(t *testing.T) {
	t.Run("snapshot", func(t *testing.T) {
		app := testApp(&stubEngine{})

		req := httptest.NewRequest(netHttp.MethodGet, "/api/orderbook/BTCUSDT?depth=5", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown pair", func(t *testing.T) {
		app := testApp(&stubEngine{snapshotErr: engine.ErrUnknownPair})

		req := httptest.NewRequest(netHttp.MethodGet, "/api/orderbook/DOGEUSDT", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		req = httptest.NewRequest(netHttp.MethodGet, "/api/orderbook/DOGEUSDT/stats", nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestPriceHistory(t *testing.T) {
	prices := &stubPriceRepo{prices: []models.Price{
		{Symbol: "BTCUSDT", Price: decimal.NewFromInt(42000)},
		{Symbol: "BTCUSDT", Price: decimal.NewFromInt(42100)},
	}}
	app := testAppWith(&stubEngine{}, prices, newStubSettings())

	t.Run("default window", func(t *testing.T) {
		req := httptest.NewRequest(netHttp.MethodGet, "/api/prices/BTCUSDT", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out []models.Price
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Len(t, out, 2)
	})

	t.Run("bad bounds", func(t *testing.T) {
		req := httptest.NewRequest(netHttp.MethodGet, "/api/prices/BTCUSDT?from=yesterday", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdatePairStatus(t *testing.T) {
	t.Run("disable pair", func(t *testing.T) {
		settings := newStubSettings("BTCUSDT")
		app := testAppWith(&stubEngine{}, &stubPriceRepo{}, settings)

		req := httptest.NewRequest(netHttp.MethodPut, "/api/pair/BTCUSDT/status",
			bytes.NewReader([]byte(`{"status":"disabled"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		id := settings.known["BTCUSDT"].ID
		assert.Equal(t, structs.Disabled, settings.updated[id])
	})

	t.Run("bad status", func(t *testing.T) {
		app := testAppWith(&stubEngine{}, &stubPriceRepo{}, newStubSettings("BTCUSDT"))

		req := httptest.NewRequest(netHttp.MethodPut, "/api/pair/BTCUSDT/status",
			bytes.NewReader([]byte(`{"status":"paused"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown pair", func(t *testing.T) {
		app := testAppWith(&stubEngine{}, &stubPriceRepo{}, newStubSettings())

		req := httptest.NewRequest(netHttp.MethodPut, "/api/pair/DOGEUSDT/status",
			bytes.NewReader([]byte(`{"status":"enabled"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
