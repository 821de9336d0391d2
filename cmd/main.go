package main

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apiHttp "exchange/internal/api/http"
	"exchange/internal/broadcast"
	"exchange/internal/controllers"
	"exchange/internal/engine"
	mongoRepo "exchange/internal/repository/mongo"
	"exchange/internal/repository/mongo/structs"
	"exchange/internal/repository/postgres"
	"exchange/internal/usecasees"
)

const monitorInterval = 10 * time.Second

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	if err := app.loadConfig(confFileName); err != nil {
		panic(err)
	}

	app.initLogger()
	app.initMetrics()

	if err := app.initHTTPClient(); err != nil {
		panic(err)
	}

	if err := app.initPromTail(); err != nil {
		app.Logger.WithError(err).Error("promtail init failed")
	}

	if err := app.initTgBot(); err != nil {
		panic(err)
	}

	if err := app.initDB(app.Config.DB); err != nil {
		panic(err)
	}

	if err := app.initMongo(); err != nil {
		panic(err)
	}

	chatID, err := strconv.ParseInt(app.Config.TelegramChatID, 10, 64)
	if err != nil {
		panic(err)
	}

	settingsRepo := mongoRepo.NewSettingsRepository(app.Mongo)
	if err := settingsRepo.SetDefault(); err != nil {
		panic(err)
	}
	pairSource := mongoRepo.NewPairSource(settingsRepo)

	store := postgres.NewStore(app.DB)
	priceRepo := postgres.NewPriceRepository(app.DB)

	kafkaSink := broadcast.NewKafkaSink(
		strings.Split(app.Config.KafkaBrokers, ","),
		app.Config.KafkaTopic,
		app.Logger,
	)
	tgmSink := broadcast.NewTgmSink(app.TGM, chatID, app.Logger)
	metricsSink := broadcast.NewMetricsSink(
		app.Metrics.Engine[MetricOrdersProcessed],
		app.Metrics.Engine[MetricTradesExecuted],
		app.Metrics.Engine[MetricOrdersTriggered],
		app.Metrics.Engine[MetricOrdersCancelled],
	)

	eng := engine.NewEngine(
		store,
		pairSource,
		engine.Fanout{kafkaSink, tgmSink, metricsSink},
		app.Logger,
	)

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	priceFeed := controllers.NewPriceFeedController(
		app.HTTPClient,
		app.Config.PriceFeedUrl,
		app.Logger,
	)

	monitorUseCase := usecasees.NewMonitorUseCase(
		eng,
		priceFeed,
		priceRepo,
		monitorInterval,
		app.Logger,
	)

	pairs, err := settingsRepo.List()
	if err != nil {
		panic(err)
	}

	for _, pair := range pairs {
		if pair.Status != structs.Enabled.ToString() {
			continue
		}

		if err := monitorUseCase.Monitoring(pair.Symbol); err != nil {
			app.Logger.Error(err)
		}
	}

	app.Fiber = fiber.New()

	middleware := apiHttp.NewMiddleware(app.Name, app.Fiber)
	middleware.UseMetrics()

	apiHttp.RegisterHTTPEndpoints(app.Fiber, eng, priceRepo, settingsRepo, app.Logger)

	if err := app.Fiber.Listen(":" + app.Config.HTTPPort); err != nil {
		panic(err)
	}
}
