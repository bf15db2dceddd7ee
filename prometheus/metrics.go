// Package prometheus registers and exposes the service metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aproovi_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aproovi_register_total",
			Help: "Total number of account registrations",
		},
	)

	// Auth error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_token", "missing_token", "role_mismatch", ...
	)

	// Company operation counter
	CompanyOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_company_operations_total",
			Help: "Total number of company operations",
		},
		[]string{"operation"}, // "create", "update", "deactivate", "list", ...
	)

	// Creative operation counter
	CreativeOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_creative_operations_total",
			Help: "Total number of creative operations",
		},
		[]string{"operation"}, // "upload", "upload_multiple", "set_status", ...
	)

	// Status transition counter
	StatusTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_creative_status_total",
			Help: "Total number of creative status transitions by target status",
		},
		[]string{"status"},
	)

	// Upload error counter
	UploadErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_upload_errors_total",
			Help: "Total number of object store upload failures",
		},
		[]string{"kind"}, // "asset", "logo"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aproovi_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aproovi_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aproovi_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(
		LoginCounter,
		RegisterCounter,
		AuthErrorCounter,
		CompanyOperationCounter,
		CreativeOperationCounter,
		StatusTransitionCounter,
		UploadErrorCounter,
		HTTPRequestCounter,
		RequestDuration,
	)
	prometheus.MustRegister(DBOperationDuration)
}

// MetricsMiddleware records request counts and durations per endpoint.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// TrackDBOperation returns a function that records the duration of a
// database operation; use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordCompanyOperation records a company operation
func RecordCompanyOperation(operation string) {
	CompanyOperationCounter.WithLabelValues(operation).Inc()
}

// RecordCreativeOperation records a creative operation
func RecordCreativeOperation(operation string) {
	CreativeOperationCounter.WithLabelValues(operation).Inc()
}

// RecordStatusTransition records a creative status transition
func RecordStatusTransition(status string) {
	StatusTransitionCounter.WithLabelValues(status).Inc()
}

// RecordUploadError records an object store upload failure
func RecordUploadError(kind string) {
	UploadErrorCounter.WithLabelValues(kind).Inc()
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
