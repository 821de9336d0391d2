package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	mongoRepo "exchange/internal/repository/mongo"
	"exchange/internal/repository/postgres"
)

func RegisterHTTPEndpoints(
	f *fiber.App,
	e Engine,
	prices postgres.PriceRepo,
	settings mongoRepo.SettingsRepo,
	l *logrus.Logger,
) {
	h := NewHandler(f, e, prices, settings, l)

	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
	router.Post("/order", h.SubmitOrder)
	router.Delete("/order/:id", h.CancelOrder)
	router.Get("/orderbook/:symbol", h.OrderBookSnapshot)
	router.Get("/orderbook/:symbol/stats", h.OrderBookStats)
	router.Get("/prices/:symbol", h.PriceHistory)
	router.Put("/pair/:symbol/status", h.UpdatePairStatus)
}
