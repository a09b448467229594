// Package metrics publica los contadores del libro en Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
)

var _ inventory.MetricsRecorder = (*Recorder)(nil)

// Recorder implementa inventory.MetricsRecorder sobre un registry propio.
type Recorder struct {
	registry *prometheus.Registry
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
	drift    prometheus.Gauge
	audits   prometheus.Counter
}

// NewRecorder registra los colectores bajo el namespace dado (ej. "stock_tracker").
func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_movements_accepted_total",
			Help:      "Mutaciones del libro aceptadas por operación y tipo.",
		}, []string{"op", "type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_movements_rejected_total",
			Help:      "Mutaciones del libro rechazadas por operación y razón.",
		}, []string{"op", "reason"}),
		drift: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_drift_items",
			Help:      "Artículos cuyo stock no coincide con el libro en la última auditoría.",
		}),
		audits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_audits_total",
			Help:      "Auditorías completas ejecutadas.",
		}),
	}
	r.registry.MustRegister(
		r.accepted, r.rejected, r.drift, r.audits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) MovementAccepted(op, txType string) {
	r.accepted.WithLabelValues(op, txType).Inc()
}

func (r *Recorder) MovementRejected(op, reason string) {
	r.rejected.WithLabelValues(op, reason).Inc()
}

func (r *Recorder) DriftDetected(items int) {
	r.audits.Inc()
	r.drift.Set(float64(items))
}

// Handler expone el registry en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
