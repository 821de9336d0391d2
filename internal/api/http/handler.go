package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"exchange/internal/engine"
	mongoRepo "exchange/internal/repository/mongo"
	"exchange/internal/repository/mongo/structs"
	"exchange/internal/repository/postgres"
	"exchange/models"
)

//go:generate mockery --case=snake --name=Engine

type Engine interface {
	ProcessOrder(order *models.Order) (*engine.Result, error)
	CancelOrder(orderID, traderID string) (decimal.Decimal, error)
	GetOrderBookSnapshot(pairID string, depth int) (*engine.BookSnapshot, error)
	GetOrderBookStats(pairID string) (*engine.BookStats, error)
}

type Handler struct {
	fiber    *fiber.App
	engine   Engine
	prices   postgres.PriceRepo
	settings mongoRepo.SettingsRepo
	logger   *logrus.Logger
}

func NewHandler(
	f *fiber.App,
	e Engine,
	prices postgres.PriceRepo,
	settings mongoRepo.SettingsRepo,
	l *logrus.Logger,
) *Handler {
	return &Handler{
		fiber:    f,
		engine:   e,
		prices:   prices,
		settings: settings,
		logger:   l,
	}
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	body := struct {
		Status bool `json:"status"`
	}{
		Status: true,
	}

	if err := c.JSON(body); err != nil {
		return err
	}

	return nil
}

func (h *Handler) SubmitOrder(c *fiber.Ctx) error {
	var order models.Order

	if err := c.BodyParser(&order); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.engine.ProcessOrder(&order)
	if err != nil {
		if engine.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h.logger.WithError(err).Error("process order failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(result)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	traderID := c.Query("traderId")

	released, err := h.engine.CancelOrder(orderID, traderID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrOrderNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, engine.ErrNotOrderOwner),
			errors.Is(err, engine.ErrOrderNotCancellable):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		h.logger.WithError(err).Error("cancel order failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	body := struct {
		ReleasedAmount decimal.Decimal `json:"releasedAmount"`
	}{
		ReleasedAmount: released,
	}

	return c.JSON(body)
}

func (h *Handler) OrderBookSnapshot(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	depth := c.QueryInt("depth")

	snapshot, err := h.engine.GetOrderBookSnapshot(symbol, depth)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownPair) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(snapshot)
}

func (h *Handler) OrderBookStats(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	stats, err := h.engine.GetOrderBookStats(symbol)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownPair) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(stats)
}

func (h *Handler) PriceHistory(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	eTime := time.Now().UTC()
	sTime := eTime.Add(-24 * time.Hour)

	var err error
	if from := c.Query("from"); from != "" {
		if sTime, err = time.Parse(time.RFC3339, from); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	if to := c.Query("to"); to != "" {
		if eTime, err = time.Parse(time.RFC3339, to); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	prices, err := h.prices.GetByCreatedByInterval(symbol, sTime, eTime)
	if err != nil {
		h.logger.WithError(err).Error("load price history failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(prices)
}

func (h *Handler) UpdatePairStatus(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	status := structs.PairStatus(body.Status)
	if status != structs.Enabled && status != structs.Disabled {
		return fiber.NewError(fiber.StatusBadRequest, "status must be enabled or disabled")
	}

	settings, err := h.settings.Load(symbol)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := h.settings.UpdateStatus(settings.ID, status); err != nil {
		h.logger.WithError(err).Error("update pair status failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	}{
		Symbol: symbol,
		Status: status.ToString(),
	})
}
