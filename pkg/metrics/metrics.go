package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса.
// HTTP-метрики заполняются middleware, метрики БД - обёрткой dbmetrics,
// бизнес-метрики - use cases.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBConnectionsOpen *prometheus.GaugeVec
	DBConnectionsUsed *prometheus.GaugeVec
	DBConnectionsIdle *prometheus.GaugeVec

	ReservationsTotal     *prometheus.CounterVec
	PenaltiesCreatedTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		}, []string{"service"}),

		DBConnectionsUsed: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections in use",
		}, []string{"service"}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		ReservationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_reservations_total",
			Help: "Slot reservation attempts by outcome (won, conflict)",
		}, []string{"service", "outcome"}),

		PenaltiesCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cancellation_penalties_created_total",
			Help: "Number of cancellation penalties created",
		}, []string{"service"}),
	}
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(seconds)
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.DBConnectionsOpen.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBConnectionsUsed.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBConnectionsIdle.WithLabelValues(m.serviceName).Set(float64(idle))
}

// IncReservation фиксирует исход попытки занять слот
func (m *Metrics) IncReservation(outcome string) {
	m.ReservationsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}

// IncPenaltyCreated фиксирует создание штрафа за отмену
func (m *Metrics) IncPenaltyCreated() {
	m.PenaltiesCreatedTotal.WithLabelValues(m.serviceName).Inc()
}
