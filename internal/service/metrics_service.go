package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes recorded by the metrics service.
const (
	BookingOutcomeBooked   = "booked"
	BookingOutcomeQueued   = "queued"
	BookingOutcomeRejected = "rejected"
	BookingOutcomeModified = "modified"
	BookingOutcomeCanceled = "canceled"
)

// MetricsService encapsulates Prometheus instrumentation for the booking API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	waitlistOps     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookingsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking operations by outcome",
	}, []string{"outcome"})

	waitlistOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_operations_total",
		Help: "Waitlist queue operations",
	}, []string{"op"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Outbound notification attempts by result",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, bookingsTotal, waitlistOps, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		bookingsTotal:   bookingsTotal,
		waitlistOps:     waitlistOps,
		notifications:   notifications,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordBooking counts a booking operation by outcome.
func (s *MetricsService) RecordBooking(outcome string) {
	if s == nil {
		return
	}
	s.bookingsTotal.WithLabelValues(outcome).Inc()
}

// RecordWaitlistOp counts a waitlist enqueue or dequeue.
func (s *MetricsService) RecordWaitlistOp(op string) {
	if s == nil {
		return
	}
	s.waitlistOps.WithLabelValues(op).Inc()
}

// RecordNotification counts a notification attempt.
func (s *MetricsService) RecordNotification(sent bool) {
	if s == nil {
		return
	}
	status := "sent"
	if !sent {
		status = "failed"
	}
	s.notifications.WithLabelValues(status).Inc()
}
