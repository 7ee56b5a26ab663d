package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "consultation"

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec

	WizardTransitions *prometheus.CounterVec
	PaymentResults    *prometheus.CounterVec
	BookingsConfirmed *prometheus.CounterVec
	ActiveSessions    *prometheus.GaugeVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections",
			Help:      "Database pool connections by state",
		}, []string{"service", "state"}),
		WizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_transitions_total",
			Help:      "Booking wizard state transitions",
		}, []string{"service", "from", "to"}),
		PaymentResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_results_total",
			Help:      "Payment results by outcome",
		}, []string{"service", "outcome"}),
		BookingsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_confirmed_total",
			Help:      "Booking records persisted and confirmed",
		}, []string{"service"}),
		ActiveSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payment_pending_sessions",
			Help:      "Sessions waiting for a payment result",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.WizardTransitions,
		m.PaymentResults,
		m.BookingsConfirmed,
		m.ActiveSessions,
	)

	return m
}

// ObserveHTTPRequest учитывает HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает запрос к базе данных
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
	m.DBOpenConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
}

// ObserveTransition учитывает переход мастера бронирования
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.WizardTransitions.WithLabelValues(m.service, from, to).Inc()
}

// ObservePaymentResult учитывает результат оплаты (success, failed, timeout)
func (m *Metrics) ObservePaymentResult(outcome string) {
	if m == nil {
		return
	}
	m.PaymentResults.WithLabelValues(m.service, outcome).Inc()
}

// IncBookingsConfirmed учитывает подтвержденное бронирование
func (m *Metrics) IncBookingsConfirmed() {
	if m == nil {
		return
	}
	m.BookingsConfirmed.WithLabelValues(m.service).Inc()
}

// SetPendingPayments выставляет число сессий, ожидающих оплату
func (m *Metrics) SetPendingPayments(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.WithLabelValues(m.service).Set(float64(n))
}
