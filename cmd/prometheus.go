package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricConst int

const (
	MetricOrdersProcessed MetricConst = iota
	MetricTradesExecuted
	MetricOrdersTriggered
	MetricOrdersCancelled
)

func (m MetricConst) ToString() string {
	switch m {
	case MetricOrdersProcessed:
		return "engine_orders_processed_total"
	case MetricTradesExecuted:
		return "engine_trades_executed_total"
	case MetricOrdersTriggered:
		return "engine_orders_triggered_total"
	case MetricOrdersCancelled:
		return "engine_orders_cancelled_total"
	}

	return "engine_unknown"
}

type Metrics struct {
	Engine map[MetricConst]prometheus.Counter
}

func (a *App) initMetrics() {
	metrics := Metrics{Engine: map[MetricConst]prometheus.Counter{}}

	for _, m := range []MetricConst{
		MetricOrdersProcessed,
		MetricTradesExecuted,
		MetricOrdersTriggered,
		MetricOrdersCancelled,
	} {
		metrics.Engine[m] = promauto.NewCounter(prometheus.CounterOpts{
			Name: m.ToString(),
			Help: m.ToString(),
		})
	}

	a.Metrics = &metrics
}
