// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petcare_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	bookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcare_booking_transitions_total",
		Help: "Booking status changes by target status",
	}, []string{"status"})

	waitlistJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcare_waitlist_joins_total",
		Help: "Waitlist join attempts by type and result",
	}, []string{"type", "result"})

	verificationFlips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcare_company_verification_changes_total",
		Help: "Automatic company verification flag changes",
	}, []string{"verified"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcare_cache_lookups_total",
		Help: "Read-through cache lookups by area and result",
	}, []string{"area", "result"})
)

// ObserveHTTPRequest registra un request HTTP.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveBookingTransition cuenta una reserva creada o un cambio de estado.
func ObserveBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// ObserveWaitlistJoin: result es "created", "duplicate" o "invalid".
// typ debe ser un valor acotado (los tipos válidos o "unknown").
func ObserveWaitlistJoin(typ, result string) {
	waitlistJoins.WithLabelValues(typ, result).Inc()
}

func ObserveVerificationChange(verified bool) {
	label := "false"
	if verified {
		label = "true"
	}
	verificationFlips.WithLabelValues(label).Inc()
}

// ObserveCache: area es "analytics" o "currency"; hit=false cuenta un miss.
func ObserveCache(area string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(area, result).Inc()
}
