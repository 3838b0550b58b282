package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shreesteel/backend/internal/metrics"
)

// MetricsMiddleware collects HTTP metrics for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		// Numeric status as string so Grafana queries like status=~"5.." work
		statusStr := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
	}
}

// RecordRateLimitExceeded records a rate limit violation
func RecordRateLimitExceeded(endpoint, method string) {
	metrics.Get().RateLimitExceededTotal.WithLabelValues(endpoint, method).Inc()
}

// RecordDatabaseQuery records a database query duration
func RecordDatabaseQuery(queryType, table string, duration time.Duration) {
	metrics.Get().DatabaseQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// SetDatabaseConnections records the current open connection count
func SetDatabaseConnections(database string, count int) {
	metrics.Get().DatabaseConnectionsOpen.WithLabelValues(database).Set(float64(count))
}

// RecordLeadSubmitted records a contact form submission
func RecordLeadSubmitted(source string) {
	metrics.Get().LeadsSubmittedTotal.WithLabelValues(source).Inc()
}

// RecordVisitTracked records a tracked visit
func RecordVisitTracked(device string) {
	metrics.Get().VisitsTrackedTotal.WithLabelValues(device).Inc()
}

// RecordEstimateComputed records a grill cost estimate
func RecordEstimateComputed(grillType, metalType string) {
	metrics.Get().EstimatesComputedTotal.WithLabelValues(grillType, metalType).Inc()
}

// RecordStatusTransition records a lead status change
func RecordStatusTransition(from, to string) {
	metrics.Get().StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError records an error by type and endpoint
func RecordError(errorType, endpoint string) {
	metrics.Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
