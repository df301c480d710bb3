// Package metrics registers the Prometheus collectors shared by the simulator, decision loop, and reporter.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quotes_total", Help: "Synthetic quotes published"},
		[]string{"symbol"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders filled against the paper account"},
		[]string{"symbol", "side"},
	)
	OrderRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_rejects_total", Help: "Orders the paper account refused"},
		[]string{"symbol", "side"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Actionable strategy signals"},
		[]string{"strategy", "action"},
	)
	PortfolioValue = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "portfolio_value", Help: "Cash plus marked open positions"},
	)
	Cash = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cash", Help: "Uninvested cash"},
	)
	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "open_positions", Help: "Symbols with a non-zero position"},
	)
)

func init() {
	prometheus.MustRegister(QuotesTotal, OrdersTotal, OrderRejectsTotal, SignalsTotal, PortfolioValue, Cash, OpenPositions)
}

// Serve exposes /metrics on addr in the background. The returned server is owned by the caller.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
