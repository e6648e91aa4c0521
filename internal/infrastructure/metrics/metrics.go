// Package metrics expone métricas Prometheus del API: movimientos de stock y tráfico HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stockflow-api/internal/application/stock"
)

const namespace = "stockflow"

var _ stock.MovementObserver = (*Metrics)(nil)

// Metrics registro propio (no el global) con las métricas de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	StockMovements      *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New crea el registro con las métricas de Go y de proceso.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		StockMovements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stock_movements_total",
				Help:      "Movimientos de stock procesados por tipo y resultado",
			},
			[]string{"type", "result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de requests HTTP",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de los requests HTTP en segundos",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
	registry.MustRegister(m.StockMovements, m.HTTPRequestsTotal, m.HTTPRequestDuration)
	return m
}

// ObserveMovement cuenta un movimiento de stock.
func (m *Metrics) ObserveMovement(movementType, result string) {
	m.StockMovements.WithLabelValues(movementType, result).Inc()
}

// ObserveHTTP registra un request. path debe ser la ruta plantilla (/api/products/:id), no la URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler handler HTTP de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registro (tests, collectors adicionales).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
