// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OperationEvents transiciones del libro de operaciones por tipo y evento (created, confirmed, cancelled).
	OperationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operation_events_total",
			Help: "Transiciones de operaciones por tipo y evento",
		},
		[]string{"type", "event"},
	)

	// InsufficientStock confirmaciones rechazadas por falta de stock.
	InsufficientStock = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_insufficient_stock_total",
			Help: "Confirmaciones rechazadas por stock insuficiente",
		},
	)

	// LowStock eventos de stock bajo emitidos al confirmar.
	LowStock = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_low_stock_events_total",
			Help: "Productos que quedaron en o bajo el stock mínimo",
		},
	)

	// SecurityAlerts alertas de seguridad por tipo.
	SecurityAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_alerts_total",
			Help: "Alertas de seguridad registradas por tipo",
		},
		[]string{"alert_type"},
	)

	// TenantWarnings advertencias de resolución de empresa por motivo.
	TenantWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_resolution_warnings_total",
			Help: "Advertencias de resolución de empresa por motivo",
		},
		[]string{"reason"},
	)

	// AuditWriteFailures escrituras de bitácora fallidas (no propagadas).
	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Escrituras de bitácora que fallaron",
		},
	)

	// HTTPRequests peticiones HTTP por método, ruta y código.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y código de estado",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration latencia de las peticiones HTTP.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register registra los colectores en el registry por defecto. Idempotente.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OperationEvents,
			InsufficientStock,
			LowStock,
			SecurityAlerts,
			TenantWarnings,
			AuditWriteFailures,
			HTTPRequests,
			HTTPDuration,
		)
	})
}

// Handler devuelve el handler HTTP de exposición de métricas.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
