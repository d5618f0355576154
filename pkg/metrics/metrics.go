package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы создания бронирования
const (
	OutcomeCreated            = "created"
	OutcomeTimeConflict       = "time_conflict"
	OutcomeValidationError    = "validation_error"
	OutcomeUnknownServiceItem = "unknown_service_item"
	OutcomeInternalError      = "internal_error"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec

	BookingOutcomes *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_open_connections",
				Help: "Number of established connections to the database",
			},
			[]string{"service"},
		),
		DBInUseConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_in_use_connections",
				Help: "Number of connections currently in use",
			},
			[]string{"service"},
		),
		DBIdleConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_idle_connections",
				Help: "Number of idle connections",
			},
			[]string{"service"},
		),
		DBWaitCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_wait_count",
				Help: "Total number of connections waited for",
			},
			[]string{"service"},
		),
		BookingOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_create_outcomes_total",
				Help: "Booking creation attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingOutcomes,
	)

	return m
}

// RecordBookingOutcome увеличивает счетчик исходов создания бронирования.
// Безопасен для nil (метрики выключены).
func (m *Metrics) RecordBookingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveDBQuery записывает длительность запроса к БД. Безопасен для nil.
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(seconds)
}
