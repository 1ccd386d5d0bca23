// Package metrics métricas Prometheus de los motores de inventario.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
)

var _ inventory.BatchObserver = (*BatchMetrics)(nil)

// BatchMetrics contadores y latencia de lotes de reposición y venta.
// Usa un registro propio para que cada instancia (y cada test) sea independiente.
type BatchMetrics struct {
	registry *prometheus.Registry
	batches  *prometheus.CounterVec
	lines    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewBatchMetrics registra las métricas junto con las del runtime de Go y del proceso.
func NewBatchMetrics(namespace string) *BatchMetrics {
	m := &BatchMetrics{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_batches_total",
			Help:      "Lotes de inventario procesados por operación y resultado.",
		}, []string{"operation", "outcome"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_batch_lines_total",
			Help:      "Líneas recibidas en lotes de inventario.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inventory_batch_duration_seconds",
			Help:      "Duración de la transacción de cada lote.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.batches, m.lines, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveBatch implementa inventory.BatchObserver.
func (m *BatchMetrics) ObserveBatch(operation, outcome string, lines int, elapsed time.Duration) {
	m.batches.WithLabelValues(operation, outcome).Inc()
	m.lines.WithLabelValues(operation, outcome).Add(float64(lines))
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (m *BatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro subyacente.
func (m *BatchMetrics) Registry() *prometheus.Registry { return m.registry }
